// File: /database/database.go
package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"globe-travel-api/config"
	"globe-travel-api/logging"
)

type Backend string

const (
	BackendSQLite Backend = config.BackendSQLite
	BackendMySQL  Backend = config.BackendMySQL
)

// ErrNotInitialized is returned by every Store call once the store is closed.
var ErrNotInitialized = errors.New("database: store not initialized")

type RunResult struct {
	InsertedID  int64
	RowsChanged int64
}

// Store is the persistence capability handed to services and controllers.
type Store interface {
	DB() *gorm.DB
	Query(ctx context.Context, dest interface{}, sql string, args ...interface{}) error
	QueryOne(ctx context.Context, dest interface{}, sql string, args ...interface{}) (bool, error)
	Run(ctx context.Context, sql string, args ...interface{}) (RunResult, error)
	Backend() Backend
	Ping(ctx context.Context) error
	Close() error
}

type gormStore struct {
	mu      sync.RWMutex
	db      *gorm.DB
	backend Backend
	closed  bool
}

// Open selects the backend from configuration, connects and migrates. The
// backend is fixed for the lifetime of the returned Store.
func Open(cfg *config.Config) (Store, error) {
	logLevel := logger.Warn
	if cfg.LogLevel == "debug" {
		logLevel = logger.Info
	}

	var (
		store Store
		err   error
	)
	switch Backend(cfg.DBType) {
	case BackendMySQL:
		store, err = OpenMySQL(cfg, logLevel)
		if err != nil && cfg.DBFallbackSQLite {
			logging.Warn().Err(err).Str("path", cfg.DBPath).Msg("MySQL unavailable, falling back to SQLite")
			store, err = OpenSQLite(cfg.DBPath, logLevel)
		}
	case BackendSQLite:
		store, err = OpenSQLite(cfg.DBPath, logLevel)
	default:
		return nil, fmt.Errorf("unknown database type %q", cfg.DBType)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(store.DB()); err != nil {
		store.Close()
		return nil, err
	}

	logging.Info().Str("backend", string(store.Backend())).Msg("Database ready")
	return store, nil
}

// gormLogger routes GORM's query log through zerolog. Lookups that find
// nothing are ordinary 404s and are not logged.
func gormLogger(level logger.LogLevel) logger.Interface {
	l := logging.With().Str("component", "gorm").Logger()
	return newGormLogger(&l, level)
}

func newGormLogger(w logger.Writer, level logger.LogLevel) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// OpenSQLite opens the embedded file store. All access goes through a single
// connection.
func OpenSQLite(path string, logLevel logger.LogLevel) (Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logging.Warn().Err(err).Msg("Could not enable WAL journal mode")
	}

	return &gormStore{db: db, backend: BackendSQLite}, nil
}

// OpenMySQL connects to the networked store with a bounded pool.
func OpenMySQL(cfg *config.Config, logLevel logger.LogLevel) (Store, error) {
	db, err := gorm.Open(mysql.Open(MySQLDSN(cfg)), &gorm.Config{
		Logger:         gormLogger(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get mysql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBPoolSize)
	sqlDB.SetMaxIdleConns(cfg.DBPoolSize)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	return &gormStore{db: db, backend: BackendMySQL}, nil
}

func MySQLDSN(cfg *config.Config) string {
	dsn := mysqldriver.NewConfig()
	dsn.User = cfg.DBUser
	dsn.Passwd = cfg.DBPassword
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(cfg.DBHost, strconv.Itoa(cfg.DBPort))
	dsn.DBName = cfg.DBName
	dsn.ParseTime = true
	dsn.Loc = time.UTC
	dsn.Params = map[string]string{"charset": "utf8mb4"}
	return dsn.FormatDSN()
}

func (s *gormStore) DB() *gorm.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		tx := s.db.Session(&gorm.Session{NewDB: true})
		tx.AddError(ErrNotInitialized)
		return tx
	}
	return s.db
}

func (s *gormStore) Query(ctx context.Context, dest interface{}, sql string, args ...interface{}) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Raw(sql, args...).Scan(dest).Error
}

// QueryOne scans the first row into dest and reports whether a row existed.
func (s *gormStore) QueryOne(ctx context.Context, dest interface{}, sql string, args ...interface{}) (bool, error) {
	db, err := s.handle()
	if err != nil {
		return false, err
	}
	result := db.WithContext(ctx).Raw(sql, args...).Scan(dest)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *gormStore) Run(ctx context.Context, sql string, args ...interface{}) (RunResult, error) {
	db, err := s.handle()
	if err != nil {
		return RunResult{}, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return RunResult{}, err
	}

	res, err := sqlDB.ExecContext(ctx, sql, args...)
	if err != nil {
		return RunResult{}, err
	}

	var out RunResult
	// Not every statement reports an insert id; zero is fine there.
	out.InsertedID, _ = res.LastInsertId()
	if out.RowsChanged, err = res.RowsAffected(); err != nil {
		return RunResult{}, err
	}
	return out, nil
}

func (s *gormStore) Backend() Backend {
	return s.backend
}

func (s *gormStore) Ping(ctx context.Context) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *gormStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNotInitialized
	}
	s.closed = true

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *gormStore) handle() (*gorm.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed || s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}
