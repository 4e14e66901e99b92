package countries

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joefazee/findcountry/models"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new country info repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

// Upsert inserts info or replaces the stored row with the same name
func (r *repository) Upsert(ctx context.Context, info *models.CountryInfo) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "country_name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"official_name", "capital", "region", "subregion",
				"population", "area", "languages", "currencies", "updated_at",
			}),
		}).
		Create(info).Error
}

// GetByName returns the stored row whose name matches exactly
func (r *repository) GetByName(ctx context.Context, name string) (*models.CountryInfo, error) {
	var info models.CountryInfo
	err := r.db.WithContext(ctx).Where("country_name = ?", name).First(&info).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// GetAll returns every stored row ordered by name
func (r *repository) GetAll(ctx context.Context) ([]models.CountryInfo, error) {
	var infos []models.CountryInfo
	err := r.db.WithContext(ctx).Order("country_name ASC").Find(&infos).Error
	return infos, err
}

// Delete removes the stored row with the given name
func (r *repository) Delete(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Where("country_name = ?", name).Delete(&models.CountryInfo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
