package database

import (
	"fmt"

	"github.com/Ocarreno01/aira-back/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultStatusName is the status assigned to projects created without an
// explicit statusId. Matched case-insensitively.
const DefaultStatusName = "Oportunidad de venta"

// Seed populates the reference tables. It is idempotent: existing rows are
// matched by their natural key (code or name) and left untouched.
func Seed(db *gorm.DB) error {
	roles := []models.Role{
		{Code: "ADMIN", Name: "ADMIN", Description: "Administrador del sistema"},
		{Code: "VENDEDOR", Name: "VENDEDOR", Description: "Usuario con permisos de vendedor"},
	}
	for _, role := range roles {
		role.ID = uuid.New()
		err := db.Where("code = ?", role.Code).FirstOrCreate(&role).Error
		if err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role.Code, err)
		}
	}

	documentTypes := []models.DocumentType{
		{Code: "CC", Name: "Cédula de ciudadanía", Description: "Personas naturales"},
		{Code: "CE", Name: "Cédula de extranjería", Description: "Extranjeros residentes"},
		{Code: "TI", Name: "Tarjeta de identidad", Description: "Menores de edad"},
		{Code: "PAS", Name: "Pasaporte", Description: "Documento internacional"},
		{Code: "NIT", Name: "NIT", Description: "Identificación tributaria (empresas y algunos naturales)"},
		{Code: "RC", Name: "Registro civil", Description: "Identificación para menores"},
	}
	for _, dt := range documentTypes {
		dt.ID = uuid.New()
		err := db.Where("code = ?", dt.Code).FirstOrCreate(&dt).Error
		if err != nil {
			return fmt.Errorf("failed to seed document type %s: %w", dt.Code, err)
		}
	}

	statuses := []models.ProjectStatus{
		{Name: DefaultStatusName, Description: "Prospecto inicial del proyecto", GeneraBitacora: false},
		{Name: "Cotización enviada", Description: "Se envió propuesta/cotización al cliente", GeneraBitacora: false},
		{Name: "En negociación", Description: "Negociación activa (requiere bitácora)", GeneraBitacora: true},
		{Name: "Vendido", Description: "Proyecto vendido", GeneraBitacora: false},
		{Name: "Facturado", Description: "Proyecto facturado", GeneraBitacora: false},
	}
	for _, status := range statuses {
		status.ID = uuid.New()
		err := db.Where("name = ?", status.Name).FirstOrCreate(&status).Error
		if err != nil {
			return fmt.Errorf("failed to seed status %s: %w", status.Name, err)
		}
	}

	return nil
}
