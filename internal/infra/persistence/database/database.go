/*
 * @Description: 数据库连接管理 (支持多种数据库)
 */
package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/anzhiyu-c/myblog/pkg/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DialectName 把配置中的数据库类型映射为 ent 方言名称
func DialectName(dbType string) (string, error) {
	switch strings.ToLower(dbType) {
	case "", "sqlite", "sqlite3":
		return dialect.SQLite, nil
	case "mysql", "mariadb":
		return dialect.MySQL, nil
	case "postgres", "postgresql":
		return dialect.Postgres, nil
	default:
		return "", fmt.Errorf("不支持的数据库驱动: %s (支持: mysql/mariadb, postgres, sqlite)", dbType)
	}
}

// NewSQLDB 创建并返回一个标准的 *sql.DB 连接池以及对应的 ent 方言
func NewSQLDB(cfg *config.Config) (*sql.DB, string, error) {
	dbType := cfg.GetString(config.KeyDBType)
	if dbType == "" {
		log.Println("提示: 配置文件中未指定 'Database.Type'，将默认使用 'sqlite'")
	}
	dialectName, err := DialectName(dbType)
	if err != nil {
		return nil, "", err
	}

	dbUser := cfg.GetString(config.KeyDBUser)
	dbPass := cfg.GetString(config.KeyDBPassword)
	dbHost := cfg.GetString(config.KeyDBHost)
	dbPort := cfg.GetString(config.KeyDBPort)
	dbName := cfg.GetString(config.KeyDBName)

	var db *sql.DB
	switch dialectName {
	case dialect.MySQL:
		if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
			return nil, "", fmt.Errorf("MySQL 连接参数不完整 (需要 User, Host, Port, Name)")
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			dbUser, dbPass, dbHost, dbPort, dbName)
		db, err = sql.Open("mysql", dsn)
	case dialect.Postgres:
		if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
			return nil, "", fmt.Errorf("PostgreSQL 连接参数不完整 (需要 User, Host, Port, Name)")
		}
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			dbHost, dbPort, dbUser, dbPass, dbName)
		db, err = sql.Open("postgres", dsn)
	default:
		if dbName == "" {
			dbName = "myblog.db"
		}
		finalPath := dbName
		if !filepath.IsAbs(finalPath) {
			dataDir := "./data"
			if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
				return nil, "", fmt.Errorf("无法创建 data 目录: %w", err)
			}
			finalPath = filepath.Join(dataDir, dbName)
		}
		log.Printf("【提示】SQLite 数据库路径: %s\n", finalPath)
		db, err = OpenSQLite(finalPath)
		if err != nil {
			return nil, "", err
		}
		return db, dialectName, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("打开 sql.DB 连接失败 (方言: %s): %w", dialectName, err)
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("无法 Ping 通数据库 (%s:%s/%s): %w", dbHost, dbPort, dbName, err)
	}

	log.Printf("✅ %s 数据库连接池创建成功！\n", dialectName)
	return db, dialectName, nil
}

// OpenSQLite 打开指定路径的 SQLite 数据库，启用外键约束
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("打开 SQLite 数据库失败: %w", err)
	}
	db.SetMaxOpenConns(8)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("无法 Ping 通 SQLite 数据库 (%s): %w", path, err)
	}
	return db, nil
}

// NewDriver 把连接池包装成 ent 的 dialect.Driver，开启 Debug 时打印所有 SQL
func NewDriver(db *sql.DB, dialectName string, debug bool) dialect.Driver {
	var drv dialect.Driver = entsql.OpenDB(dialectName, db)
	if debug {
		log.Println("【数据库】Debug模式已开启，将打印所有执行的SQL语句。")
		drv = dialect.Debug(drv, log.Println)
	}
	return drv
}
