package config

import (
	"taskkeeper/internal/taskkeeper/adapters/jsonstore"
)

// StorageConfig описывает дерево файлов данных.
type StorageConfig struct {
	Root               string `yaml:"root" env:"TASKKEEPER_STORAGE_ROOT" env-default:"."`
	Env                string `yaml:"env" env:"TASKKEEPER_STORAGE_ENV" env-default:"production"`
	RejectDuplicateIDs bool   `yaml:"reject_duplicate_ids" env:"TASKKEEPER_STORAGE_REJECT_DUPLICATE_IDS" env-default:"false"`
}

// GetEnvironment возвращает окружение хранилища.
func (c *StorageConfig) GetEnvironment() (jsonstore.Environment, error) {
	return jsonstore.ParseEnvironment(c.Env)
}

// GetDuplicatePolicy возвращает политику добавления сущности с существующим ID.
func (c *StorageConfig) GetDuplicatePolicy() jsonstore.DuplicatePolicy {
	if c.RejectDuplicateIDs {
		return jsonstore.DuplicateReject
	}
	return jsonstore.DuplicateOverwrite
}
