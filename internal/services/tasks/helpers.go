package tasks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
)

type departmentSet struct {
	order []string
	index map[string]struct{}
}

func newDepartmentSet(departments []string) departmentSet {
	set := departmentSet{index: make(map[string]struct{}, len(departments))}
	for _, dept := range departments {
		dept = strings.TrimSpace(dept)
		if dept == "" {
			continue
		}
		if _, dup := set.index[dept]; dup {
			continue
		}
		set.index[dept] = struct{}{}
		set.order = append(set.order, dept)
	}

	return set
}

func (s departmentSet) has(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s departmentSet) list() []string {
	return append([]string(nil), s.order...)
}

func (ts *TaskService) validateNew(author string, in NewTask) (models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Task{}, ErrEmptyTitle
	}

	if !ts.departments.has(in.Department) {
		return models.Task{}, fmt.Errorf("%w: %q", ErrUnknownDepartment, in.Department)
	}

	return models.Task{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Department:  in.Department,
		Status:      models.StatusOpen,
		CreatedBy:   author,
		DueDate:     in.DueDate,
	}, nil
}

func normalizeUpdate(upd Update) (string, string, error) {
	if upd.Status == nil && upd.Comment == nil {
		return "", "", ErrEmptyUpdate
	}

	var status, comment string

	if upd.Status != nil {
		status = strings.TrimSpace(*upd.Status)
		if status == "" {
			return "", "", ErrEmptyStatus
		}
	}

	if upd.Comment != nil {
		comment = strings.TrimSpace(*upd.Comment)
		if comment == "" {
			return "", "", ErrEmptyComment
		}
	}

	return status, comment, nil
}

func mapRepoError(id int, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	return fmt.Errorf("failed to update task '%d': %w", id, err)
}
