package gormdb

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/99minutos/posts-api/internal/api/metrics"
)

// insert writes row to the writer table first, so the writer assigns the id
// and timestamps, then writes mirrorOf() to the reader table. mirrorOf is
// called after the writer insert and must return a copy of row.
func (s *Store) insert(ctx context.Context, writerTable, readerTable string, row any, mirrorOf func() any) error {
	if err := s.Writer.WithContext(ctx).Table(writerTable).Create(row).Error; err != nil {
		return err
	}
	if !s.mirror {
		return nil
	}
	if err := s.Reader.WithContext(ctx).Table(readerTable).Create(mirrorOf()).Error; err != nil {
		s.diverged(readerTable, "create", err)
		return fmt.Errorf("mirror insert into %s: %w", readerTable, err)
	}
	return nil
}

// writeBoth runs fn against the writer table and, when mirroring, against the
// reader table at the same time. There is no transaction spanning the two
// stores: if only one side fails the stores are left diverged.
func (s *Store) writeBoth(ctx context.Context, op, writerTable, readerTable string, fn func(tx *gorm.DB) error) error {
	if !s.mirror {
		return fn(s.Writer.WithContext(ctx).Table(writerTable))
	}

	// A failure on one side must not cancel the other, so the group carries
	// no shared context and both errors are inspected after Wait.
	var writerErr, readerErr error
	var g errgroup.Group
	g.Go(func() error {
		writerErr = fn(s.Writer.WithContext(ctx).Table(writerTable))
		return writerErr
	})
	g.Go(func() error {
		readerErr = fn(s.Reader.WithContext(ctx).Table(readerTable))
		return readerErr
	})
	_ = g.Wait()

	switch {
	case writerErr != nil && readerErr != nil:
		return writerErr
	case writerErr != nil:
		s.diverged(writerTable, op, writerErr)
		return writerErr
	case readerErr != nil:
		s.diverged(readerTable, op, readerErr)
		return fmt.Errorf("mirror %s on %s: %w", op, readerTable, readerErr)
	}
	return nil
}

func (s *Store) diverged(table, op string, err error) {
	metrics.StoreMirrorFailuresTotal.WithLabelValues(table, op).Inc()
	s.log.Error().Err(err).Str("table", table).Str("op", op).Msg("dual-store write diverged")
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
