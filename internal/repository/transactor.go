package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Transactor begins GORM transactions and hands out repositories bound to them
type Transactor struct {
	db *gorm.DB
}

// NewTransactor creates a new transactor
func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// Begin starts a unit of work
func (t *Transactor) Begin(ctx context.Context) (UnitOfWorkInterface, error) {
	tx := t.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	return &unitOfWork{tx: tx}, nil
}

type unitOfWork struct {
	tx   *gorm.DB
	done bool
}

func (u *unitOfWork) Teams() TeamRepositoryInterface {
	return NewTeamRepository(u.tx)
}

func (u *unitOfWork) Members() MembershipRepositoryInterface {
	return NewMembershipRepository(u.tx)
}

func (u *unitOfWork) Tasks() TaskRepositoryInterface {
	return NewTaskRepository(u.tx)
}

func (u *unitOfWork) Commit() error {
	if u.done {
		return fmt.Errorf("transaction already finished")
	}
	u.done = true
	return u.tx.Commit().Error
}

func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Rollback().Error
}
