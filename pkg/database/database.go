package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

// Open 按配置的驱动打开数据库连接
func Open(driver, dsn string) error {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver: %s", driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db = conn
	return nil
}

func Database() *gorm.DB {
	return db
}

// SetDatabase 注入已有连接（测试或宿主系统复用连接池时使用）
func SetDatabase(conn *gorm.DB) {
	db = conn
}
