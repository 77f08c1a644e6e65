package repository

import (
	"context"
	"database/sql"
	"errors"

	"aquarium_control/internal/models"
)

type PreferencesSQLite struct {
	db *sql.DB
}

func NewPreferencesSQLite(db *sql.DB) *PreferencesSQLite { return &PreferencesSQLite{db: db} }

// preferencesRowID pins the singleton row; only the most recently saved
// preferences are authoritative.
const preferencesRowID = 1

const upsertPreferencesSQL = `
	INSERT INTO user_preferences (
		id,
		min_grn_temp, max_grn_temp, min_org_temp, max_org_temp,
		min_grn_ph, max_grn_ph, min_org_ph, max_org_ph,
		min_grn_tds, max_grn_tds, min_org_tds, max_org_tds,
		grn_water_lv, org_water_lv, tank_height
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		min_grn_temp=excluded.min_grn_temp, max_grn_temp=excluded.max_grn_temp,
		min_org_temp=excluded.min_org_temp, max_org_temp=excluded.max_org_temp,
		min_grn_ph=excluded.min_grn_ph, max_grn_ph=excluded.max_grn_ph,
		min_org_ph=excluded.min_org_ph, max_org_ph=excluded.max_org_ph,
		min_grn_tds=excluded.min_grn_tds, max_grn_tds=excluded.max_grn_tds,
		min_org_tds=excluded.min_org_tds, max_org_tds=excluded.max_org_tds,
		grn_water_lv=excluded.grn_water_lv, org_water_lv=excluded.org_water_lv,
		tank_height=excluded.tank_height
`

const selectPreferencesSQL = `
	SELECT min_grn_temp, max_grn_temp, min_org_temp, max_org_temp,
	       min_grn_ph, max_grn_ph, min_org_ph, max_org_ph,
	       min_grn_tds, max_grn_tds, min_org_tds, max_org_tds,
	       grn_water_lv, org_water_lv, tank_height
	FROM user_preferences WHERE id=?
`

// Load fetches the singleton row. found=false with nil error means the user
// never saved preferences.
func (r *PreferencesSQLite) Load(ctx context.Context) (models.UserPreferences, bool, error) {
	row := r.db.QueryRowContext(ctx, selectPreferencesSQL, preferencesRowID)

	var p models.UserPreferences
	err := row.Scan(
		&p.MinGrnTemp, &p.MaxGrnTemp, &p.MinOrgTemp, &p.MaxOrgTemp,
		&p.MinGrnPh, &p.MaxGrnPh, &p.MinOrgPh, &p.MaxOrgPh,
		&p.MinGrnTds, &p.MaxGrnTds, &p.MinOrgTds, &p.MaxOrgTds,
		&p.GrnWaterLv, &p.OrgWaterLv, &p.TankHeight,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserPreferences{}, false, nil
	}
	if err != nil {
		return models.UserPreferences{}, false, err
	}
	return p, true, nil
}

// Save upserts the singleton row (id always 1).
func (r *PreferencesSQLite) Save(ctx context.Context, p models.UserPreferences) error {
	_, err := r.db.ExecContext(ctx, upsertPreferencesSQL,
		preferencesRowID,
		p.MinGrnTemp, p.MaxGrnTemp, p.MinOrgTemp, p.MaxOrgTemp,
		p.MinGrnPh, p.MaxGrnPh, p.MinOrgPh, p.MaxOrgPh,
		p.MinGrnTds, p.MaxGrnTds, p.MinOrgTds, p.MaxOrgTds,
		p.GrnWaterLv, p.OrgWaterLv, p.TankHeight,
	)
	return err
}
