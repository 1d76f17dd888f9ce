package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/recipes/backend/internal/model"
)

// Models lists every table the site owns, in dependency order
var Models = []interface{}{
	&model.Category{},
	&model.Recipe{},
}

// RunMigrations brings the schema up to date with the models
func RunMigrations(db *gorm.DB, log logrus.FieldLogger) error {
	log.Infof("Running auto-migration on %s", db.Dialector.Name())

	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("Database schema is up to date")
	return nil
}
