package interfaces

import (
	"context"

	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
)

type ModuleRepository interface {
	// Create module
	CreateModule(ctx context.Context, module feedermodels.Module) error

	// Read modules
	GetModule(ctx context.Context, moduleID string) (*feedermodels.Module, error)
	ListModules(ctx context.Context) ([]feedermodels.Module, error)

	// Update module (replaces all mutable fields)
	UpdateModule(ctx context.Context, module feedermodels.Module) error

	// Delete module. Does not cascade to schedules.
	DeleteModule(ctx context.Context, moduleID string) error

	// UpsertWeight records a weight telemetry reading. An existing
	// module gets the new weight and is forced to status "active"; an
	// unknown module is auto-provisioned and attached to the first
	// camera on record (or a fallback id when no cameras exist yet).
	// Returns created=true when a new module row was inserted.
	UpsertWeight(ctx context.Context, deviceID string, weight float64) (created bool, err error)
}
