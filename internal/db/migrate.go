package db

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/diewo77/compta-boucherie/internal/config"
	"github.com/diewo77/compta-boucherie/internal/models"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AuditViewName is the enriched read view consumed by the traçabilité page.
const AuditViewName = "vue_audit_enrichie"

func ConnectAndMigrate() (*gorm.DB, error) {
	dsn := GetNormalizedDSN()
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN est vide, vérifiez la configuration de l'environnement")
	}
	var db *gorm.DB
	var err error
	logLevel := logger.Silent
	if config.ParseBool("DB_DEBUG", false) {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		fmt.Println("Retrying DB connection...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	// Basic connectivity test
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	// Always print masked DSN once for diagnostics (before migrations for visibility)
	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	fmt.Println("[DB] Using DSN:", masked)
	// If MIGRATIONS=1 (or true) we run sql migrations via golang-migrate; otherwise keep AutoMigrate fallback (dev convenience)
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		modelsToMigrate := []interface{}{
			&models.Role{}, &models.Commerce{}, &models.User{}, &models.Encaissement{}, &models.Facture{}, &models.Invendu{}, &models.AuditEvent{},
		}
		for _, m := range modelsToMigrate {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
		if viewErr := EnsureAuditView(db); viewErr != nil {
			return nil, fmt.Errorf("audit view: %w", viewErr)
		}
	}

	// sanity check: ensure required core tables exist
	for _, table := range []string{"roles", "commerces", "users", "audit_events"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	// Seeding only when explicitly requested (e.g. development) via DB_SEED=1|true
	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(db)
	}
	return db, nil
}

// EnsureAuditView (re)creates the enriched audit view: raw audit rows joined
// with the actor's name and, per audited table, the business date and amount
// of the affected record. The SQL migration path creates the same view; this
// covers the AutoMigrate path and sqlite-backed tests.
func EnsureAuditView(db *gorm.DB) error {
	// DROP VIEW IF EXISTS works on both postgres and sqlite.
	if err := db.Exec("DROP VIEW IF EXISTS " + AuditViewName).Error; err != nil {
		return err
	}
	// record_date is exposed as an ISO date string: expression columns lose
	// their declared type in sqlite views, so a timestamp there would not
	// scan back into time.Time.
	recordDate := "substr(COALESCE(e.date_encaissement, f.date_facture), 1, 10)"
	if db.Dialector.Name() == "postgres" {
		recordDate = "to_char(COALESCE(e.date_encaissement, f.date_facture), 'YYYY-MM-DD')"
	}
	stmt := `CREATE VIEW ` + AuditViewName + ` AS
SELECT a.id, a.table_name, a.record_id, a.action, a.commerce_id, a.user_id,
       COALESCE(u.prenom || ' ' || u.nom, '') AS user_nom,
       a.old_values, a.new_values, a.created_at,
       ` + recordDate + ` AS record_date,
       COALESCE(e.montant_total, f.montant_ttc) AS montant
FROM audit_events a
LEFT JOIN users u ON u.id = a.user_id
LEFT JOIN encaissements e ON a.table_name = 'encaissements' AND e.id = a.record_id
LEFT JOIN factures f ON a.table_name = 'factures' AND f.id = a.record_id`
	return db.Exec(stmt).Error
}

func seed(db *gorm.DB) {
	baseRoles := []models.Role{
		{Name: "admin", Description: "Administrateur"},
		{Name: "gerant", Description: "Gérant du commerce"},
		{Name: "employe", Description: "Employé"},
	}
	for _, r := range baseRoles {
		var existing models.Role
		if err := db.Where("name = ?", r.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			db.Create(&r)
		}
	}
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	// golang-migrate only accepts URL form; key=value DSNs are converted first
	m, err := migrate.New("file://migrations", ToURLDSN(dsn))
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
