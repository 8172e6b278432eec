package entity

type User struct {
	Base

	// Address is the owner's wallet address on the minting chain. Packs
	// minted for this user are delivered to it.
	Address string `gorm:"unique"`
	Name    string
}
