package roster

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/student"
)

var errNoData = errors.New("no data found in sheet")

type (
	// Source is the external tabular feed treated as ground truth for
	// active membership. Fetch returns the raw table, header row included.
	Source interface {
		Fetch(ctx context.Context) ([][]string, error)
	}

	Repository interface {
		CreateSyncLog(ctx context.Context, l SyncLog) (SyncLog, error)
		// CompleteSyncLog mutates the run row exactly once with final
		// status, counts and completion timestamp.
		CompleteSyncLog(ctx context.Context, l SyncLog) error
		QuerySyncLogs(ctx context.Context, limit int) ([]SyncLog, error)
	}

	Service struct {
		repo     Repository
		students student.Repository
		source   Source
		logger   core.Logger
	}
)

func NewService(repo Repository, students student.Repository, source Source, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		students: students,
		source:   source,
		logger:   logger,
	}
}

// Synchronize pulls the roster source and reconciles the student store
// against it: upserts every row, then soft-deletes students absent from the
// snapshot. The run is bracketed by a SyncLog row; row-level problems are
// collected, they never abort the run. Not atomic: a crash mid-run leaves
// partial state and the log in_progress, converged by the next run.
func (svc *Service) Synchronize(ctx context.Context) Outcome {
	syncLog, err := svc.repo.CreateSyncLog(ctx, SyncLog{
		Status:    StatusInProgress,
		StartedAt: time.Now().UTC(),
	})
	if err != nil {
		svc.logger.Error(fmt.Sprintf("creating sync log: %v", err), err)
		return Outcome{Errors: []string{"failed to create sync log"}}
	}

	outcome, rowErrs, err := svc.run(ctx)
	outcome.Errors = rowErrs

	syncLog.CompletedAt = null.TimeFrom(time.Now().UTC())
	syncLog.Added = outcome.Added
	syncLog.Updated = outcome.Updated
	syncLog.Deleted = outcome.Deleted

	if err != nil {
		// fetch/parse-level failure: the run itself failed
		syncLog.Status = StatusFailed
		syncLog.ErrorMessage = null.StringFrom(err.Error())
		outcome.Errors = append([]string{err.Error()}, rowErrs...)
	} else {
		syncLog.Status = StatusSuccess
		if len(rowErrs) > 0 {
			syncLog.ErrorMessage = null.StringFrom(strings.Join(rowErrs, "; "))
		}
		outcome.Success = true
	}

	if err = svc.repo.CompleteSyncLog(ctx, syncLog); err != nil {
		svc.logger.Error(fmt.Sprintf("completing sync log %s: %v", syncLog.ID, err), err)
	}
	return outcome
}

func (svc *Service) run(ctx context.Context) (outcome Outcome, rowErrs []string, err error) {
	table, err := svc.source.Fetch(ctx)
	if err != nil {
		return outcome, nil, err
	}

	rows, rowErrs, err := parseSnapshot(table)
	if err != nil {
		return outcome, rowErrs, err
	}

	// diff baseline: student_id -> store id, for every known student
	refs, err := svc.students.QueryStudentRefs(ctx)
	if err != nil {
		return outcome, rowErrs, errors.Wrap(err, "loading existing students")
	}
	baseline := make(map[string]string, len(refs))
	for _, ref := range refs {
		baseline[ref.StudentID] = ref.ID
	}

	seen := make(map[string]bool, len(rows))
	now := time.Now().UTC()

	for _, row := range rows {
		seen[row.StudentID] = true

		primary, perr := svc.upsertParent(ctx, row.PrimaryParentName, row.PrimaryParentPhone)
		if perr != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("Student %s: failed to upsert primary parent", row.StudentID))
			continue // guardian failure blocks the student write
		}

		// secondary guardian is best-effort
		var secondaryID null.String
		if row.SecondParentName.Valid && row.SecondParentPhone.Valid {
			if secondary, serr := svc.upsertParent(ctx, row.SecondParentName.String, row.SecondParentPhone.String); serr == nil {
				secondaryID = null.StringFrom(secondary.ID)
			}
		}

		st := student.Student{
			StudentID:         row.StudentID,
			Name:              row.StudentName,
			School:            row.School,
			DateOfBirth:       row.DateOfBirth,
			EmergencyContact:  row.EmergencyContact,
			Notes:             row.Notes,
			PrimaryParentID:   null.StringFrom(primary.ID),
			SecondaryParentID: secondaryID,
			IsActive:          true,
			UpdatedAt:         now,
		}

		if id, ok := baseline[row.StudentID]; ok {
			st.ID = id
			if _, uerr := svc.students.UpdateStudent(ctx, st); uerr != nil {
				rowErrs = append(rowErrs, fmt.Sprintf("Student %s: processing error", row.StudentID))
				continue
			}
			outcome.Updated++
		} else {
			st.CreatedAt = now
			if _, cerr := svc.students.CreateStudent(ctx, st); cerr != nil {
				rowErrs = append(rowErrs, fmt.Sprintf("Student %s: processing error", row.StudentID))
				continue
			}
			outcome.Added++
		}
	}

	// the source is the authoritative membership list: anyone not in the
	// snapshot leaves active service, history intact
	for studentID, id := range baseline {
		if seen[studentID] {
			continue
		}
		if derr := svc.students.DeactivateStudent(ctx, id, now); derr != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("Student %s: failed to deactivate", studentID))
			continue
		}
		outcome.Deleted++
	}

	return outcome, rowErrs, nil
}

// upsertParent upserts by phone, falling back to a plain read when the
// upsert conflicts in a way the store cannot resolve.
func (svc *Service) upsertParent(ctx context.Context, name, phone string) (student.Parent, error) {
	parent, err := svc.students.UpsertParentByPhone(ctx, name, phone)
	if err == nil {
		return parent, nil
	}
	return svc.students.GetParentByPhone(ctx, phone)
}

// parseSnapshot validates the header row and parses each data row
// independently. A row missing required fields is reported and skipped;
// a missing required column fails the whole snapshot.
func parseSnapshot(table [][]string) ([]Row, []string, error) {
	if len(table) < 2 {
		return nil, nil, errNoData
	}

	headerIdx := make(map[string]int, len(table[0]))
	for i, h := range table[0] {
		headerIdx[strings.TrimSpace(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := headerIdx[col]; !ok {
			return nil, nil, errors.Errorf("missing required column: %s", col)
		}
	}

	cell := func(row []string, col string) string {
		idx, ok := headerIdx[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	optCell := func(row []string, col string) null.String {
		if v := cell(row, col); v != "" {
			return null.StringFrom(v)
		}
		return null.String{}
	}

	var rowErrs []string
	rows := make([]Row, 0, len(table)-1)
	for i := 1; i < len(table); i++ {
		raw := table[i]
		row := Row{
			StudentID:          cell(raw, ColStudentID),
			StudentName:        cell(raw, ColStudentName),
			School:             optCell(raw, ColSchool),
			DateOfBirth:        optCell(raw, ColDateOfBirth),
			EmergencyContact:   optCell(raw, ColEmergencyContact),
			Notes:              optCell(raw, ColNotes),
			PrimaryParentName:  cell(raw, ColPrimaryParentName),
			PrimaryParentPhone: cell(raw, ColPrimaryParentPhone),
			SecondParentName:   optCell(raw, ColSecondParentName),
			SecondParentPhone:  optCell(raw, ColSecondParentPhone),
		}

		if row.StudentID == "" || row.StudentName == "" || row.PrimaryParentName == "" || row.PrimaryParentPhone == "" {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: missing required fields", i+1)) // 1-based, header included
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

func (svc *Service) QueryLogs(ctx context.Context, limit int) ([]SyncLog, error) {
	return svc.repo.QuerySyncLogs(ctx, limit)
}
