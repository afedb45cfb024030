package implementation

import (
	"context"
	"database/sql"
	"fmt"

	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
)

// DefaultCamID is assigned to auto-provisioned modules when no camera
// exists yet. The reference may dangle until the camera is created.
const DefaultCamID = "CAMERA01"

const moduleStatusActive = "active"

type SqliteModuleRepository struct {
	db *sql.DB
}

func NewSqliteModuleRepository(db *sql.DB) *SqliteModuleRepository {
	return &SqliteModuleRepository{db: db}
}

// Create module
func (r *SqliteModuleRepository) CreateModule(ctx context.Context, module feedermodels.Module) error {
	query := `INSERT INTO modules (module_id, cam_id, status, weight) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, module.ModuleID, module.CamID, module.Status, module.Weight)
	return err
}

// Read module
func (r *SqliteModuleRepository) GetModule(ctx context.Context, moduleID string) (*feedermodels.Module, error) {
	query := `SELECT module_id, cam_id, status, weight FROM modules WHERE module_id = ?`

	var module feedermodels.Module
	err := r.db.QueryRowContext(ctx, query, moduleID).Scan(&module.ModuleID, &module.CamID, &module.Status, &module.Weight)
	if err != nil {
		return nil, err
	}

	return &module, nil
}

// List modules
func (r *SqliteModuleRepository) ListModules(ctx context.Context) ([]feedermodels.Module, error) {
	query := `SELECT module_id, cam_id, status, weight FROM modules ORDER BY module_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	modules := make([]feedermodels.Module, 0)
	for rows.Next() {
		var module feedermodels.Module
		if err := rows.Scan(&module.ModuleID, &module.CamID, &module.Status, &module.Weight); err != nil {
			return nil, err
		}
		modules = append(modules, module)
	}

	return modules, rows.Err()
}

// Update module (full replacement of mutable fields)
func (r *SqliteModuleRepository) UpdateModule(ctx context.Context, module feedermodels.Module) error {
	query := `UPDATE modules SET cam_id = ?, status = ?, weight = ? WHERE module_id = ?`

	_, err := r.db.ExecContext(ctx, query, module.CamID, module.Status, module.Weight, module.ModuleID)
	return err
}

// Delete module (non-cascading: dependent schedules are left in place)
func (r *SqliteModuleRepository) DeleteModule(ctx context.Context, moduleID string) error {
	query := `DELETE FROM modules WHERE module_id = ?`

	_, err := r.db.ExecContext(ctx, query, moduleID)
	return err
}

// UpsertWeight records a weight reading, auto-provisioning unknown
// devices so a factory-fresh feeder can start reporting without any
// operator setup.
func (r *SqliteModuleRepository) UpsertWeight(ctx context.Context, deviceID string, weight float64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin weight upsert: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, `SELECT module_id FROM modules WHERE module_id = ?`, deviceID).Scan(&existing)
	switch {
	case err == nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE modules SET weight = ?, status = ? WHERE module_id = ?`,
			weight, moduleStatusActive, deviceID)
		if err != nil {
			return false, fmt.Errorf("update module weight: %w", err)
		}
		return false, tx.Commit()

	case err == sql.ErrNoRows:
		// Attach the new module to the first camera on record, or the
		// fallback id when none exists yet.
		camID := DefaultCamID
		var firstCam string
		err = tx.QueryRowContext(ctx, `SELECT cam_id FROM camera ORDER BY cam_id LIMIT 1`).Scan(&firstCam)
		if err == nil {
			camID = firstCam
		} else if err != sql.ErrNoRows {
			return false, fmt.Errorf("lookup camera for provisioning: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO modules (module_id, cam_id, status, weight) VALUES (?, ?, ?, ?)`,
			deviceID, camID, moduleStatusActive, weight)
		if err != nil {
			return false, fmt.Errorf("provision module: %w", err)
		}
		return true, tx.Commit()

	default:
		return false, fmt.Errorf("lookup module: %w", err)
	}
}
