package storage

import (
	. "github.com/anhnphe171575/SepCapstone-sub005/pkg/chat"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&User{},
		&Project{},
		&Team{},
		&TeamMember{},
		&Message{},
		&MessageRead{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
