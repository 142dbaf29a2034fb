package client

import (
	"log"
	"time"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func InitMysqlClient(databaseURL string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		// duplicate-key errors must surface as gorm.ErrDuplicatedKey:
		// they are the success-path "already exists" signal for invoice
		// generation and payment dedup
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	// Connection pool (important for webhooks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.Contract{},
		&model.Invoice{},
		&model.InvoiceLog{},
		&model.InvoiceSequence{},
		&model.Plan{},
		&model.User{},
		&model.Payment{},
		&model.LicenseAudit{},
		&model.CheckoutSession{},
	); err != nil {
		log.Fatal(err)
	}

	return db
}
