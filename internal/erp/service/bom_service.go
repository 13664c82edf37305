package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/entity"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/repository"
)

type BOMService struct {
	repo        *repository.BOMRepository
	productRepo *repository.ProductRepository
}

func NewBOMService(repo *repository.BOMRepository, productRepo *repository.ProductRepository) *BOMService {
	return &BOMService{repo: repo, productRepo: productRepo}
}

type CreateBOMRequest struct {
	ProductID string `json:"product" binding:"required"`
	Version   string `json:"version" binding:"required"`
	Notes     string `json:"notes"`
}

func (s *BOMService) Create(req CreateBOMRequest, userID string) (*entity.BOM, error) {
	if _, err := s.productRepo.GetByID(req.ProductID); err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}

	bom := &entity.BOM{
		ID:        uuid.New().String(),
		ProductID: req.ProductID,
		Version:   req.Version,
		Status:    entity.BOMStatusDraft,
		Notes:     req.Notes,
		CreatedBy: userID,
	}
	if err := s.repo.Create(bom); err != nil {
		return nil, fmt.Errorf("create bom: %w", err)
	}
	return bom, nil
}

func (s *BOMService) GetByID(id string) (*entity.BOM, error) {
	return s.repo.GetByID(id)
}

func (s *BOMService) List(params repository.BOMListParams) ([]entity.BOM, int64, error) {
	return s.repo.List(params)
}

func (s *BOMService) Delete(id string) error {
	bom, err := s.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("bom not found: %w", err)
	}
	if bom.Status == entity.BOMStatusActive {
		return fmt.Errorf("active bom cannot be deleted")
	}
	return s.repo.Delete(id)
}

// Activate marks the BOM active and points the product's
// active_bom_id at it. A previously active version of the same
// product is obsoleted.
func (s *BOMService) Activate(id string) (*entity.BOM, error) {
	bom, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("bom not found: %w", err)
	}
	product, err := s.productRepo.GetByID(bom.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}

	if product.ActiveBOMID != nil && *product.ActiveBOMID != bom.ID {
		old, err := s.repo.GetByID(*product.ActiveBOMID)
		if err == nil {
			old.Status = entity.BOMStatusObsolete
			if err := s.repo.Update(old); err != nil {
				return nil, fmt.Errorf("obsolete previous bom: %w", err)
			}
		}
	}

	bom.Status = entity.BOMStatusActive
	if err := s.repo.Update(bom); err != nil {
		return nil, fmt.Errorf("activate bom: %w", err)
	}
	product.ActiveBOMID = &bom.ID
	if err := s.productRepo.Update(product); err != nil {
		return nil, fmt.Errorf("update product active bom: %w", err)
	}
	return bom, nil
}

// --- Components ---

type CreateComponentRequest struct {
	ComponentType string  `json:"component_type" binding:"required,oneof=PRODUCT PROCESS"`
	SequenceOrder *int    `json:"sequence_order" binding:"omitempty,gte=1"`
	Quantity      float64 `json:"quantity" binding:"omitempty,gt=0"`
	Notes         string  `json:"notes"`

	// PRODUCT payload
	ProductID string `json:"product_component"`

	// PROCESS payload
	ProcessName string `json:"process_name"`
	MachineType string `json:"machine_type"`
}

func (s *BOMService) AddComponent(bomID string, req CreateComponentRequest) (*entity.BOMComponent, error) {
	bom, err := s.repo.GetByID(bomID)
	if err != nil {
		return nil, fmt.Errorf("bom not found: %w", err)
	}

	component := &entity.BOMComponent{
		ID:            uuid.New().String(),
		BOMID:         bom.ID,
		ComponentType: req.ComponentType,
		Notes:         req.Notes,
	}

	switch req.ComponentType {
	case entity.ComponentTypeProduct:
		if req.ProductID == "" {
			return nil, fmt.Errorf("product component requires product_component")
		}
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("product component requires a positive quantity")
		}
		// direct self-reference would make the product an input of
		// its own BOM
		if req.ProductID == bom.ProductID {
			return nil, fmt.Errorf("bom cannot contain its own product as a component")
		}
		if _, err := s.productRepo.GetByID(req.ProductID); err != nil {
			return nil, fmt.Errorf("component product not found: %w", err)
		}
		component.ProductID = &req.ProductID
		component.Quantity = req.Quantity
	case entity.ComponentTypeProcess:
		if req.ProcessName == "" {
			return nil, fmt.Errorf("process component requires process_name")
		}
		component.ProcessName = req.ProcessName
		component.MachineType = req.MachineType
	}

	if req.SequenceOrder != nil {
		component.SequenceOrder = *req.SequenceOrder
	} else {
		max, err := s.repo.MaxSequence(bom.ID)
		if err != nil {
			return nil, fmt.Errorf("read component sequence: %w", err)
		}
		component.SequenceOrder = max + 1
	}

	if err := s.repo.CreateComponent(component); err != nil {
		return nil, fmt.Errorf("create bom component: %w", err)
	}
	return component, nil
}

type UpdateComponentRequest struct {
	SequenceOrder *int     `json:"sequence_order" binding:"omitempty,gte=1"`
	Quantity      *float64 `json:"quantity" binding:"omitempty,gt=0"`
	Notes         *string  `json:"notes"`
	ProcessName   *string  `json:"process_name"`
	MachineType   *string  `json:"machine_type"`
}

func (s *BOMService) UpdateComponent(id string, req UpdateComponentRequest) (*entity.BOMComponent, error) {
	component, err := s.repo.GetComponentByID(id)
	if err != nil {
		return nil, fmt.Errorf("bom component not found: %w", err)
	}

	if req.SequenceOrder != nil {
		component.SequenceOrder = *req.SequenceOrder
	}
	if req.Quantity != nil {
		if component.ComponentType != entity.ComponentTypeProduct {
			return nil, fmt.Errorf("quantity applies to product components only")
		}
		component.Quantity = *req.Quantity
	}
	if req.Notes != nil {
		component.Notes = *req.Notes
	}
	if req.ProcessName != nil {
		if component.ComponentType != entity.ComponentTypeProcess {
			return nil, fmt.Errorf("process_name applies to process components only")
		}
		component.ProcessName = *req.ProcessName
	}
	if req.MachineType != nil {
		component.MachineType = *req.MachineType
	}

	if err := s.repo.UpdateComponent(component); err != nil {
		return nil, fmt.Errorf("update bom component: %w", err)
	}
	return component, nil
}

func (s *BOMService) DeleteComponent(id string) error {
	if _, err := s.repo.GetComponentByID(id); err != nil {
		return fmt.Errorf("bom component not found: %w", err)
	}
	return s.repo.DeleteComponent(id)
}
