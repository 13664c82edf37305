package repository

import (
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/entity"
	"gorm.io/gorm"
)

type MachineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) *MachineRepository {
	return &MachineRepository{db: db}
}

func (r *MachineRepository) Create(m *entity.Machine) error {
	return r.db.Create(m).Error
}

func (r *MachineRepository) GetByID(id string) (*entity.Machine, error) {
	var m entity.Machine
	err := r.db.Preload("MaintenanceLogs", func(db *gorm.DB) *gorm.DB { return db.Order("start_date DESC") }).
		Where("id = ?", id).First(&m).Error
	return &m, err
}

func (r *MachineRepository) Update(m *entity.Machine) error {
	return r.db.Save(m).Error
}

func (r *MachineRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.Machine{}).Error
}

type MachineListParams struct {
	Status  string
	Type    string
	Keyword string
	Page    int
	Size    int
}

func (r *MachineRepository) List(params MachineListParams) ([]entity.Machine, int64, error) {
	query := r.db.Model(&entity.Machine{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Type != "" {
		query = query.Where("machine_type = ?", params.Type)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("machine_code ILIKE ? OR brand ILIKE ? OR model ILIKE ?", kw, kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var machines []entity.Machine
	err := query.Order("machine_code ASC").Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&machines).Error
	return machines, total, err
}

// --- Maintenance logs ---

func (r *MachineRepository) CreateLog(l *entity.MaintenanceLog) error {
	return r.db.Create(l).Error
}

func (r *MachineRepository) GetLogByID(id string) (*entity.MaintenanceLog, error) {
	var l entity.MaintenanceLog
	err := r.db.Preload("Machine").Where("id = ?", id).First(&l).Error
	return &l, err
}

func (r *MachineRepository) UpdateLog(l *entity.MaintenanceLog) error {
	return r.db.Save(l).Error
}

func (r *MachineRepository) ListLogs(machineID string, unresolvedOnly bool, page, size int) ([]entity.MaintenanceLog, int64, error) {
	query := r.db.Model(&entity.MaintenanceLog{})
	if machineID != "" {
		query = query.Where("machine_id = ?", machineID)
	}
	if unresolvedOnly {
		query = query.Where("resolved = false")
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var logs []entity.MaintenanceLog
	err := query.Order("start_date DESC").Offset((page - 1) * size).Limit(size).Find(&logs).Error
	return logs, total, err
}

// CountOpenBreakdowns returns the number of unresolved breakdown logs
// for a machine.
func (r *MachineRepository) CountOpenBreakdowns(machineID string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.MaintenanceLog{}).
		Where("machine_id = ? AND maintenance_type = ? AND resolved = false", machineID, entity.MaintenanceTypeBreakdown).
		Count(&count).Error
	return count, err
}
