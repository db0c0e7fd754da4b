package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pipeline-storage/core/pipeline"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Container registers a named object container.
type Container struct {
	Name      string `gorm:"primaryKey;size:191"`
	CreatedAt time.Time
}

// TableName overrides the gorm table name.
func (Container) TableName() string {
	return "pipeline_containers"
}

// Object is one stored artifact. Name is the physical address inside the container.
type Object struct {
	Container string `gorm:"primaryKey;size:191"`
	Name      string `gorm:"primaryKey;size:512"`
	Data      []byte
	Size      int64
	UpdatedAt time.Time
}

// TableName overrides the gorm table name.
func (Object) TableName() string {
	return "pipeline_objects"
}

// ObjectColumns lists the columns the object table must provide.
var ObjectColumns = []string{"container", "name", "data", "size", "updated_at"}

// likeEscape is portable between MySQL and SQLite, unlike the backslash.
const likeEscape = "!"

// ObjectStore implements pipeline.Backend on a relational database.
// Each container is a partition of the shared object table.
type ObjectStore struct {
	db        *gorm.DB
	container string
}

var _ pipeline.Backend = (*ObjectStore)(nil)

// NewObjectStore creates a backend for container stored in db.
func NewObjectStore(db *gorm.DB, container string) *ObjectStore {
	return &ObjectStore{db: db, container: container}
}

// Open connects to the database described by cfg and returns the backend for container.
func Open(cfg Config, container string) (*ObjectStore, error) {
	if container == "" {
		return nil, fmt.Errorf("%w: database container is required", pipeline.ErrConfiguration)
	}
	db, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrStorageUnavailable, err)
	}
	return NewObjectStore(db, container), nil
}

// VerifySchema returns the object table columns missing from the database.
func (s *ObjectStore) VerifySchema(ctx context.Context) ([]string, error) {
	return MissingColumns(s.db.WithContext(ctx), Object{}.TableName(), ObjectColumns)
}

func (s *ObjectStore) ContainerExists(ctx context.Context) (bool, error) {
	db := s.db.WithContext(ctx)
	if !db.Migrator().HasTable(&Container{}) {
		return false, nil
	}

	var count int64
	if err := db.Model(&Container{}).Where("name = ?", s.container).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check container %s: %w", s.container, err)
	}
	return count > 0, nil
}

func (s *ObjectStore) CreateContainer(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&Container{}, &Object{}); err != nil {
		return fmt.Errorf("failed to migrate object tables: %w", err)
	}
	if err := binaryNames(db); err != nil {
		return err
	}

	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&Container{Name: s.container}).Error
	if err != nil {
		return fmt.Errorf("failed to create container %s: %w", s.container, err)
	}
	return nil
}

func (s *ObjectStore) DeleteContainer(ctx context.Context, force bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !force {
			var count int64
			if err := tx.Model(&Object{}).Where("container = ?", s.container).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to count objects in %s: %w", s.container, err)
			}
			if count > 0 {
				return fmt.Errorf("%w: %s holds %d objects", pipeline.ErrContainerNotEmpty, s.container, count)
			}
		}

		if err := tx.Where("container = ?", s.container).Delete(&Object{}).Error; err != nil {
			return fmt.Errorf("failed to delete objects in %s: %w", s.container, err)
		}
		if err := tx.Where("name = ?", s.container).Delete(&Container{}).Error; err != nil {
			return fmt.Errorf("failed to delete container %s: %w", s.container, err)
		}
		return nil
	})
}

func (s *ObjectStore) List(ctx context.Context, prefix string) ([]pipeline.ObjectInfo, error) {
	var rows []Object
	err := s.db.WithContext(ctx).
		Select("name", "size").
		Where("container = ? AND name LIKE ? ESCAPE '"+likeEscape+"'", s.container, escapeLike(prefix)+"%").
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list objects under %q: %w", prefix, err)
	}

	objects := make([]pipeline.ObjectInfo, 0, len(rows))
	for _, row := range rows {
		// LIKE is case-insensitive under the default collations.
		if !strings.HasPrefix(row.Name, prefix) {
			continue
		}
		objects = append(objects, pipeline.ObjectInfo{Name: row.Name, Size: row.Size})
	}
	return objects, nil
}

func (s *ObjectStore) Read(ctx context.Context, name string) ([]byte, error) {
	var obj Object
	err := s.db.WithContext(ctx).Where("container = ? AND name = ?", s.container, name).Take(&obj).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", pipeline.ErrObjectNotFound, name)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if obj.Data == nil {
		return []byte{}, nil
	}
	return obj.Data, nil
}

func (s *ObjectStore) Write(ctx context.Context, name string, data []byte) error {
	obj := Object{
		Container: s.container,
		Name:      name,
		Data:      data,
		Size:      int64(len(data)),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "container"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "size", "updated_at"}),
	}).Create(&obj).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *ObjectStore) Exists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Object{}).Where("container = ? AND name = ?", s.container, name).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", name, err)
	}
	return count > 0, nil
}

func (s *ObjectStore) DeleteObject(ctx context.Context, name string) error {
	err := s.db.WithContext(ctx).Where("container = ? AND name = ?", s.container, name).Delete(&Object{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

// binaryNames makes object names case-sensitive on MySQL, whose default
// collations would merge "A.txt" and "a.txt" under one primary key. SQLite
// compares with BINARY already.
func binaryNames(db *gorm.DB) error {
	if db.Dialector.Name() != DriverMySQL {
		return nil
	}
	err := db.Exec("ALTER TABLE `" + Object{}.TableName() + "` MODIFY `name` VARCHAR(512) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL").Error
	if err != nil {
		return fmt.Errorf("failed to make object names case-sensitive: %w", err)
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}
