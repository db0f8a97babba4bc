// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/skycastlabs/skycast/internal/auth"
	authpg "github.com/skycastlabs/skycast/internal/auth/postgres"
	"github.com/skycastlabs/skycast/internal/store"
)

// setupPostgresContainer starts a PostgreSQL container and applies the
// schema migrations.
func setupPostgresContainer() (*store.Store, func(), error) {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:16-alpine",
		pgcontainer.WithDatabase("skycast_test"),
		pgcontainer.WithUsername("skycast"),
		pgcontainer.WithPassword("skycast"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		return nil, nil, err
	}
	if err := migrator.Up(); err != nil {
		return nil, nil, err
	}
	if err := migrator.Close(); err != nil {
		return nil, nil, err
	}

	st, err := store.New(ctx, connStr)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		st.Close()
		_ = container.Terminate(ctx)
	}
	return st, cleanup, nil
}

var _ = Describe("UserRepository", Ordered, func() {
	var (
		st      *store.Store
		cleanup func()
		repo    *authpg.UserRepository
		ctx     context.Context
	)

	BeforeAll(func() {
		var err error
		st, cleanup, err = setupPostgresContainer()
		Expect(err).NotTo(HaveOccurred())
		repo = authpg.NewUserRepository(st.Pool())
		ctx = context.Background()
	})

	AfterAll(func() {
		if cleanup != nil {
			cleanup()
		}
	})

	It("creates and retrieves a user", func() {
		user, err := auth.NewUser("alice", "$argon2id$hash")
		Expect(err).NotTo(HaveOccurred())

		Expect(repo.Create(ctx, user)).To(Succeed())

		got, err := repo.GetByUsername(ctx, "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ID).To(Equal(user.ID))
		Expect(got.Username).To(Equal("alice"))
		Expect(got.FailedLoginAttempts).To(BeZero())
		Expect(got.LockoutEnd).To(BeNil())
	})

	It("looks up usernames case-insensitively", func() {
		got, err := repo.GetByUsername(ctx, "ALICE")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Username).To(Equal("alice"))
	})

	It("rejects a duplicate username regardless of case", func() {
		dup, err := auth.NewUser("Alice", "$argon2id$other")
		Expect(err).NotTo(HaveOccurred())

		err = repo.Create(ctx, dup)
		Expect(err).To(MatchError(auth.ErrDuplicateUsername))
	})

	It("persists lockout state through Update", func() {
		user, err := repo.GetByUsername(ctx, "alice")
		Expect(err).NotTo(HaveOccurred())

		now := time.Now().UTC().Truncate(time.Microsecond)
		for i := 0; i < auth.DefaultMaxFailedAttempts; i++ {
			user.IncrementFailedAttempts(auth.DefaultMaxFailedAttempts, auth.DefaultLockoutDuration, now)
		}
		Expect(repo.Update(ctx, user)).To(Succeed())

		got, err := repo.GetByID(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.FailedLoginAttempts).To(Equal(auth.DefaultMaxFailedAttempts))
		Expect(got.LockoutEnd).NotTo(BeNil())
		Expect(got.LockoutEnd.UTC()).To(BeTemporally("~", now.Add(auth.DefaultLockoutDuration), time.Second))
	})

	It("clears lockout state through Update", func() {
		user, err := repo.GetByUsername(ctx, "alice")
		Expect(err).NotTo(HaveOccurred())

		user.ResetFailedAttempts(time.Now().UTC())
		Expect(repo.Update(ctx, user)).To(Succeed())

		got, err := repo.GetByUsername(ctx, "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.FailedLoginAttempts).To(BeZero())
		Expect(got.LockoutEnd).To(BeNil())
	})

	It("reports missing users", func() {
		_, err := repo.GetByUsername(ctx, "nobody")
		Expect(err).To(MatchError(auth.ErrNotFound))
	})

	It("reports updates against missing users", func() {
		ghost, err := auth.NewUser("ghost", "$argon2id$hash")
		Expect(err).NotTo(HaveOccurred())

		err = repo.Update(ctx, ghost)
		Expect(err).To(MatchError(auth.ErrNotFound))
	})
})
