package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound covers a missing or not yet accepted game, a player outside
	// the game and an unknown round row.
	ErrNotFound        = errors.New("not found")
	ErrInvalidQuantity = errors.New("quantity must be between 0 and 100")
	ErrRoundPending    = errors.New("round already pending")
	ErrNothingToClose  = errors.New("nothing to close")
)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
