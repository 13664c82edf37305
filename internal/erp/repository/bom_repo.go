package repository

import (
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/entity"
	"gorm.io/gorm"
)

type BOMRepository struct {
	db *gorm.DB
}

func NewBOMRepository(db *gorm.DB) *BOMRepository {
	return &BOMRepository{db: db}
}

func (r *BOMRepository) Create(b *entity.BOM) error {
	return r.db.Create(b).Error
}

func (r *BOMRepository) GetByID(id string) (*entity.BOM, error) {
	var b entity.BOM
	err := r.db.Preload("Product").
		Preload("Components", func(db *gorm.DB) *gorm.DB { return db.Order("sequence_order ASC") }).
		Preload("Components.Product").
		Where("id = ?", id).First(&b).Error
	return &b, err
}

func (r *BOMRepository) Update(b *entity.BOM) error {
	return r.db.Save(b).Error
}

func (r *BOMRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.BOM{}).Error
}

type BOMListParams struct {
	ProductID string
	Status    string
	Page      int
	Size      int
}

func (r *BOMRepository) List(params BOMListParams) ([]entity.BOM, int64, error) {
	query := r.db.Model(&entity.BOM{})
	if params.ProductID != "" {
		query = query.Where("product_id = ?", params.ProductID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var boms []entity.BOM
	err := query.Preload("Product").Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&boms).Error
	return boms, total, err
}

// --- Components ---

func (r *BOMRepository) GetComponentByID(id string) (*entity.BOMComponent, error) {
	var c entity.BOMComponent
	err := r.db.Preload("BOM").Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *BOMRepository) CreateComponent(c *entity.BOMComponent) error {
	return r.db.Create(c).Error
}

func (r *BOMRepository) UpdateComponent(c *entity.BOMComponent) error {
	return r.db.Save(c).Error
}

func (r *BOMRepository) DeleteComponent(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.BOMComponent{}).Error
}

// MaxSequence returns the highest sequence_order in a BOM, 0 when the
// BOM has no components.
func (r *BOMRepository) MaxSequence(bomID string) (int, error) {
	var result struct{ Max int }
	err := r.db.Raw(`
		SELECT COALESCE(MAX(sequence_order), 0) as max
		FROM erp_bom_components
		WHERE bom_id = ?
	`, bomID).Scan(&result).Error
	return result.Max, err
}
