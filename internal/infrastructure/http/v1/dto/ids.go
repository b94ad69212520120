// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"shortid/internal/domain/idgen"
)

// GenerateRequest asks for a batch of identifiers.
type GenerateRequest struct {
	Format string `json:"format" binding:"required"`
	Count  int    `json:"count"`
}

// GenerateResponse lists issued identifiers.
type GenerateResponse struct {
	Format idgen.Format       `json:"format"`
	IDs    []idgen.Identifier `json:"ids"`
}

// ConvertRequest converts an identifier between widths.
type ConvertRequest struct {
	From        string `json:"from" binding:"required"`
	To          string `json:"to" binding:"required"`
	ID          string `json:"id" binding:"required"`
	MachineHigh uint8  `json:"machineHigh"`
	Machine     string `json:"machine"`
}

// ConvertResponse carries the converted identifier.
type ConvertResponse struct {
	From idgen.Format `json:"from"`
	To   idgen.Format `json:"to"`
	ID   string       `json:"id"`
}
