package database

var autoMigrateModels []interface{}

// RegisterAutoMigrateModels 模型包在init()中注册，AutoMigrate统一建表
func RegisterAutoMigrateModels(models ...interface{}) {
	autoMigrateModels = append(autoMigrateModels, models...)
}

func AutoMigrate() error {
	if len(autoMigrateModels) == 0 {
		return nil
	}
	return db.AutoMigrate(autoMigrateModels...)
}

func AutoMigrateModels() []interface{} {
	return autoMigrateModels
}
