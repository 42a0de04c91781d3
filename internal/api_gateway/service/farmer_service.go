package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/bmii/farmer-ledger/internal/domain/farmer"
)

// FarmerServiceImpl implements the FarmerService interface
type FarmerServiceImpl struct {
	farmerRepo farmer.Repository
}

// NewFarmerService creates a new farmer service
func NewFarmerService(farmerRepo farmer.Repository) FarmerService {
	return &FarmerServiceImpl{
		farmerRepo: farmerRepo,
	}
}

// RegisterFarmer creates a new farmer account, checking for duplicate BI numbers
func (s *FarmerServiceImpl) RegisterFarmer(ctx context.Context, name, nationalID, phone, address string, agentID uuid.UUID) (*farmer.Farmer, error) {
	existingFarmer, err := s.farmerRepo.GetByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	if existingFarmer != nil {
		return nil, farmer.ErrDuplicateNationalID{NationalID: nationalID}
	}

	f, err := farmer.NewFarmer(name, nationalID, phone, address, agentID)
	if err != nil {
		return nil, err
	}

	if err := s.farmerRepo.Create(ctx, f); err != nil {
		return nil, err
	}

	return f, nil
}

// GetFarmerByID retrieves a farmer by ID, returns ErrFarmerNotFound if not found
func (s *FarmerServiceImpl) GetFarmerByID(ctx context.Context, id uuid.UUID) (*farmer.Farmer, error) {
	return s.farmerRepo.GetByID(ctx, id)
}

// ListFarmers retrieves farmers, filtered by registering agent when agentID is set
func (s *FarmerServiceImpl) ListFarmers(ctx context.Context, agentID uuid.UUID) ([]*farmer.Farmer, error) {
	return s.farmerRepo.List(ctx, agentID)
}
