package repository

import (
	topupRepo "decor-wallet/internal/repository/topup"
)

// IRepository is a container for all repository interfaces
type IRepository struct {
	Topup topupRepo.IRepository
}
