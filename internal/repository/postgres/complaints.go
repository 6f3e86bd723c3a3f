package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirinyoku/tourdash/internal/domain"
)

type ComplaintRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ComplaintRepo) With(db DB) *ComplaintRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ComplaintRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *ComplaintRepo) Insert(ctx context.Context, c domain.Complaint) error {
	const op = "postgres.ComplaintRepo.Insert"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO complaints(
			id, full_name, nationality, country, country_code, state, mobile,
			email, complaint_type, location, incident_date, description, submitted_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.FullName, string(c.Nationality), c.Country, c.CountryCode, c.State, c.Mobile,
		c.Email, c.ComplaintType, c.Location, c.IncidentDate, c.Description, c.SubmittedAt,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *ComplaintRepo) InsertAttachment(
	ctx context.Context,
	complaintID string,
	a domain.Attachment,
	content []byte,
) error {
	const op = "postgres.ComplaintRepo.InsertAttachment"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO complaint_attachments(complaint_id, file_name, content_type, size_bytes, content)
		 VALUES ($1, $2, $3, $4, $5)`,
		complaintID, a.FileName, a.ContentType, a.SizeBytes, content,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *ComplaintRepo) Get(ctx context.Context, id string) (domain.Complaint, error) {
	const op = "postgres.ComplaintRepo.Get"

	db := r.handle()

	var (
		c           domain.Complaint
		nationality string
		incident    time.Time
		fileName    *string
		contentType *string
		size        *int64
	)
	err := db.QueryRow(ctx,
		`SELECT c.id, c.full_name, c.nationality, c.country, c.country_code, c.state,
		        c.mobile, c.email, c.complaint_type, c.location, c.incident_date,
		        c.description, c.submitted_at,
		        a.file_name, a.content_type, a.size_bytes
		   FROM complaints c
		   LEFT JOIN complaint_attachments a ON a.complaint_id = c.id
		  WHERE c.id = $1`,
		id,
	).Scan(
		&c.ID, &c.FullName, &nationality, &c.Country, &c.CountryCode, &c.State,
		&c.Mobile, &c.Email, &c.ComplaintType, &c.Location, &incident,
		&c.Description, &c.SubmittedAt,
		&fileName, &contentType, &size,
	)
	if err != nil {
		return domain.Complaint{}, wrapDBErr(op, err)
	}

	c.Nationality = domain.TouristType(nationality)
	c.IncidentDate = incident
	if fileName != nil {
		c.Attachment = &domain.Attachment{
			FileName:    *fileName,
			ContentType: deref(contentType),
			SizeBytes:   deref(size),
		}
	}

	return c, nil
}

// Recent lists the newest complaints, without attachments.
func (r *ComplaintRepo) Recent(ctx context.Context, limit int) ([]domain.Complaint, error) {
	const op = "postgres.ComplaintRepo.Recent"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, full_name, nationality, country, country_code, state, mobile,
		        email, complaint_type, location, incident_date, description, submitted_at
		   FROM complaints
		  ORDER BY submitted_at DESC
		  LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Complaint, error) {
		var (
			c           domain.Complaint
			nationality string
		)
		err := row.Scan(
			&c.ID, &c.FullName, &nationality, &c.Country, &c.CountryCode, &c.State, &c.Mobile,
			&c.Email, &c.ComplaintType, &c.Location, &c.IncidentDate, &c.Description, &c.SubmittedAt,
		)
		c.Nationality = domain.TouristType(nationality)
		return c, err
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
