package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintFilter captures listing parameters. Filters compose conjunctively.
type ComplaintFilter struct {
	CreatedBy  *string
	AssignedTo *string
	Status     *domain.ComplaintStatus
	Priority   *domain.ComplaintPriority
	SearchTerm *string
}

// ComplaintRepository encapsulates complaint persistence. The timeline and
// feedback sub-records travel with the row as JSONB documents; Update rewrites
// the whole document, so concurrent writers are last-write-wins.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	timeline, feedback, err := marshalEmbedded(complaint)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO complaints (title, description, status, priority, image_url, created_by, assigned_to, timeline, feedback)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Status,
		complaint.Priority,
		complaint.ImageURL,
		complaint.CreatedBy,
		complaint.AssignedTo,
		timeline,
		feedback,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	timeline, feedback, err := marshalEmbedded(complaint)
	if err != nil {
		return err
	}

	const query = `
        UPDATE complaints SET title=$1, description=$2, status=$3, priority=$4,
            image_url=$5, assigned_to=$6, timeline=$7, feedback=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Status,
		complaint.Priority,
		complaint.ImageURL,
		complaint.AssignedTo,
		timeline,
		feedback,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `
        SELECT id, title, description, status, priority, image_url, created_by,
               assigned_to, timeline, feedback, created_at, updated_at
        FROM complaints WHERE id=$1`

	row := r.pool.QueryRow(ctx, query, id)
	return scanComplaint(row)
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	base := `SELECT id, title, description, status, priority, image_url, created_by,
                    assigned_to, timeline, feedback, created_at, updated_at
             FROM complaints`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC`, base, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *complaint)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComplaint(row rowScanner) (*domain.Complaint, error) {
	var (
		complaint   domain.Complaint
		timelineRaw []byte
		feedbackRaw []byte
	)
	if err := row.Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Status,
		&complaint.Priority,
		&complaint.ImageURL,
		&complaint.CreatedBy,
		&complaint.AssignedTo,
		&timelineRaw,
		&feedbackRaw,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(timelineRaw) > 0 {
		if err := json.Unmarshal(timelineRaw, &complaint.Timeline); err != nil {
			return nil, fmt.Errorf("unmarshal timeline: %w", err)
		}
	}
	if len(feedbackRaw) > 0 {
		var feedback domain.Feedback
		if err := json.Unmarshal(feedbackRaw, &feedback); err != nil {
			return nil, fmt.Errorf("unmarshal feedback: %w", err)
		}
		complaint.Feedback = &feedback
	}
	return &complaint, nil
}

func marshalEmbedded(complaint *domain.Complaint) ([]byte, []byte, error) {
	entries := complaint.Timeline
	if entries == nil {
		entries = []domain.TimelineEntry{}
	}
	timeline, err := json.Marshal(entries)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal timeline: %w", err)
	}

	var feedback []byte
	if complaint.Feedback != nil {
		feedback, err = json.Marshal(complaint.Feedback)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal feedback: %w", err)
		}
	}
	return timeline, feedback, nil
}
