package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Naminiges/USU-Peduli/internal/domain"
)

func (s *Store) InsertFacility(ctx context.Context, f domain.Facility) error {
	const query = `
INSERT INTO lokasi (kode_lokasi, jenis_lokasi, kabupaten_kota, nama_lokasi,
                    latitude, longitude, status_lokasi, tingkat_akses, kondisi, alamat, aktif)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		f.ID, f.Type, f.Region, f.Name,
		f.Latitude, f.Longitude,
		f.OperationalStatus, f.AccessTier, f.Condition, f.Address, f.Active)
	return err
}

func (s *Store) InsertCheckIn(ctx context.Context, c domain.CheckIn) error {
	const query = `
INSERT INTO checkin (id_relawan, waktu, latitude, longitude, lokasi_text, lokasi_posko, catatan)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		c.VolunteerID, formatTime(c.Timestamp), c.Latitude, c.Longitude,
		c.DetectedRegion, c.NearestFacilityID, c.Note)
	return err
}

func (s *Store) InsertAssessment(ctx context.Context, a domain.Assessment) (int64, error) {
	table, err := assessmentTable(a.Kind)
	if err != nil {
		return 0, err
	}
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return 0, fmt.Errorf("encode answers: %w", err)
	}

	query := fmt.Sprintf(`
INSERT INTO %s (kode_posko, id_relawan, jawaban, skor, status, latitude, longitude,
                radius_m, catatan, aktif, waktu)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, table)
	res, err := s.db.ExecContext(ctx, query,
		a.FacilityID, a.VolunteerID, string(answers), a.Score, a.Tier,
		a.Latitude, a.Longitude, a.RadiusM, a.Note, a.Active, formatTime(a.CreatedAt))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) InsertRequest(ctx context.Context, r domain.LogisticsRequest) (int64, error) {
	const query = `
INSERT INTO permintaan_logistik (kode_posko, id_relawan, keterangan, status, waktu)
VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query,
		r.FacilityID, r.RequesterID, r.Note, r.Status, formatTime(r.CreatedAt))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) InsertAuditEntry(ctx context.Context, e domain.AuditEntry) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("encode audit payload: %w", err)
	}

	const query = `
INSERT INTO audit_log (id, id_aktor, nama_aktor, aksi, jenis_target, tabel_target,
                       ref_target, catatan, payload, waktu)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		e.ID, e.ActorID, e.ActorName, e.Action, e.TargetKind, e.TargetTable,
		e.TargetRef, e.Note, string(payload), formatTime(e.Timestamp))
	return err
}

func (s *Store) UpdateFacilityActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE lokasi SET aktif = ? WHERE kode_lokasi = ?`, active, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}

func (s *Store) UpdateFacilityType(ctx context.Context, id, facilityType string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE lokasi SET jenis_lokasi = ? WHERE kode_lokasi = ?`, facilityType, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}

func (s *Store) UpdateAssessmentActive(ctx context.Context, kind string, id int64, active bool) error {
	table, err := assessmentTable(kind)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET aktif = ? WHERE id = ?`, table), active, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}

func (s *Store) UpdateRequestStatus(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE permintaan_logistik SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}

func rowsAffectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
