package implementation

import (
	"context"
	"database/sql"

	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
)

type SqliteCameraRepository struct {
	db *sql.DB
}

func NewSqliteCameraRepository(db *sql.DB) *SqliteCameraRepository {
	return &SqliteCameraRepository{db: db}
}

// Create camera
func (r *SqliteCameraRepository) CreateCamera(ctx context.Context, camera feedermodels.Camera) error {
	query := `INSERT INTO camera (cam_id, status) VALUES (?, ?)`

	_, err := r.db.ExecContext(ctx, query, camera.CamID, camera.Status)
	return err
}

// Read camera
func (r *SqliteCameraRepository) GetCamera(ctx context.Context, camID string) (*feedermodels.Camera, error) {
	query := `SELECT cam_id, status FROM camera WHERE cam_id = ?`

	var camera feedermodels.Camera
	err := r.db.QueryRowContext(ctx, query, camID).Scan(&camera.CamID, &camera.Status)
	if err != nil {
		return nil, err
	}

	return &camera, nil
}

// List cameras
func (r *SqliteCameraRepository) ListCameras(ctx context.Context) ([]feedermodels.Camera, error) {
	query := `SELECT cam_id, status FROM camera ORDER BY cam_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cameras := make([]feedermodels.Camera, 0)
	for rows.Next() {
		var camera feedermodels.Camera
		if err := rows.Scan(&camera.CamID, &camera.Status); err != nil {
			return nil, err
		}
		cameras = append(cameras, camera)
	}

	return cameras, rows.Err()
}

// Update camera
func (r *SqliteCameraRepository) UpdateCamera(ctx context.Context, camID, status string) error {
	query := `UPDATE camera SET status = ? WHERE cam_id = ?`

	_, err := r.db.ExecContext(ctx, query, status, camID)
	return err
}

// Delete camera (non-cascading: dependent modules are left in place)
func (r *SqliteCameraRepository) DeleteCamera(ctx context.Context, camID string) error {
	query := `DELETE FROM camera WHERE cam_id = ?`

	_, err := r.db.ExecContext(ctx, query, camID)
	return err
}
