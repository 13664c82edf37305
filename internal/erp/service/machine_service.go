package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/entity"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/repository"
)

type MachineService struct {
	repo *repository.MachineRepository
}

func NewMachineService(repo *repository.MachineRepository) *MachineService {
	return &MachineService{repo: repo}
}

type CreateMachineRequest struct {
	MachineCode string `json:"machine_code" binding:"required"`
	MachineType string `json:"machine_type" binding:"required"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Description string `json:"description"`
}

func (s *MachineService) Create(req CreateMachineRequest, userID string) (*entity.Machine, error) {
	machine := &entity.Machine{
		ID:          uuid.New().String(),
		MachineCode: req.MachineCode,
		MachineType: req.MachineType,
		Brand:       req.Brand,
		Model:       req.Model,
		Status:      entity.MachineStatusActive,
		Description: req.Description,
		CreatedBy:   userID,
	}
	if err := s.repo.Create(machine); err != nil {
		return nil, fmt.Errorf("create machine: %w", err)
	}
	return machine, nil
}

func (s *MachineService) GetByID(id string) (*entity.Machine, error) {
	return s.repo.GetByID(id)
}

func (s *MachineService) List(params repository.MachineListParams) ([]entity.Machine, int64, error) {
	return s.repo.List(params)
}

type UpdateMachineRequest struct {
	MachineType string `json:"machine_type"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

func (s *MachineService) Update(id string, req UpdateMachineRequest) (*entity.Machine, error) {
	machine, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("machine not found: %w", err)
	}
	if req.MachineType != "" {
		machine.MachineType = req.MachineType
	}
	if req.Brand != "" {
		machine.Brand = req.Brand
	}
	if req.Model != "" {
		machine.Model = req.Model
	}
	if req.Status != "" {
		machine.Status = req.Status
	}
	if req.Description != "" {
		machine.Description = req.Description
	}
	if err := s.repo.Update(machine); err != nil {
		return nil, fmt.Errorf("update machine: %w", err)
	}
	return machine, nil
}

func (s *MachineService) Delete(id string) error {
	return s.repo.Delete(id)
}

// --- Maintenance ---

type CreateMaintenanceRequest struct {
	MaintenanceType string `json:"maintenance_type" binding:"omitempty,oneof=PLANNED BREAKDOWN"`
	StartDate       string `json:"start_date"` // YYYY-MM-DD, defaults to today
	Description     string `json:"description" binding:"required"`
}

// OpenMaintenance records a maintenance intervention. A breakdown
// takes the machine out of service until the log is resolved.
func (s *MachineService) OpenMaintenance(machineID string, req CreateMaintenanceRequest, userID string) (*entity.MaintenanceLog, error) {
	machine, err := s.repo.GetByID(machineID)
	if err != nil {
		return nil, fmt.Errorf("machine not found: %w", err)
	}
	if machine.Status == entity.MachineStatusRetired {
		return nil, fmt.Errorf("retired machine cannot be maintained")
	}

	maintenanceType := req.MaintenanceType
	if maintenanceType == "" {
		maintenanceType = entity.MaintenanceTypePlanned
	}
	startDate := time.Now()
	if d := parseDate(req.StartDate); d != nil {
		startDate = *d
	}

	log := &entity.MaintenanceLog{
		ID:              uuid.New().String(),
		MachineID:       machine.ID,
		MaintenanceType: maintenanceType,
		StartDate:       startDate,
		Description:     req.Description,
		CreatedBy:       userID,
	}
	if err := s.repo.CreateLog(log); err != nil {
		return nil, fmt.Errorf("create maintenance log: %w", err)
	}

	if maintenanceType == entity.MaintenanceTypeBreakdown && machine.Status == entity.MachineStatusActive {
		machine.Status = entity.MachineStatusMaintenance
		if err := s.repo.Update(machine); err != nil {
			return nil, fmt.Errorf("update machine status: %w", err)
		}
	}
	return log, nil
}

type ResolveMaintenanceRequest struct {
	EndDate     string `json:"end_date"` // YYYY-MM-DD, defaults to today
	Description string `json:"description"`
}

// ResolveMaintenance closes a log; the machine returns to service
// once no unresolved breakdowns remain.
func (s *MachineService) ResolveMaintenance(logID string, req ResolveMaintenanceRequest) (*entity.MaintenanceLog, error) {
	log, err := s.repo.GetLogByID(logID)
	if err != nil {
		return nil, fmt.Errorf("maintenance log not found: %w", err)
	}
	if log.Resolved {
		return nil, fmt.Errorf("maintenance log is already resolved")
	}

	endDate := time.Now()
	if d := parseDate(req.EndDate); d != nil {
		endDate = *d
	}
	log.EndDate = &endDate
	log.Resolved = true
	if req.Description != "" {
		log.Description = req.Description
	}
	if err := s.repo.UpdateLog(log); err != nil {
		return nil, fmt.Errorf("update maintenance log: %w", err)
	}

	open, err := s.repo.CountOpenBreakdowns(log.MachineID)
	if err != nil {
		return nil, fmt.Errorf("count open breakdowns: %w", err)
	}
	if open == 0 {
		machine, err := s.repo.GetByID(log.MachineID)
		if err == nil && machine.Status == entity.MachineStatusMaintenance {
			machine.Status = entity.MachineStatusActive
			if err := s.repo.Update(machine); err != nil {
				return nil, fmt.Errorf("update machine status: %w", err)
			}
		}
	}
	return log, nil
}

func (s *MachineService) ListLogs(machineID string, unresolvedOnly bool, page, size int) ([]entity.MaintenanceLog, int64, error) {
	return s.repo.ListLogs(machineID, unresolvedOnly, page, size)
}
