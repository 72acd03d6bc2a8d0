package postgres_test

import (
	"context"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/frahmantamala/leave-management/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-management/internal/leave/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Leave Repository on postgres", func() {
	It("locks the owner row before counting overlaps", func() {
		sqlDB, mock, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())

		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "users" .*FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("owner"))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "leaves"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()
		mock.ExpectClose()

		repo := leavePostgres.NewLeaveRepository(db)
		t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		err = repo.CreateIfNoOverlap(context.Background(), newLeave("l1", "owner", "2025-03-10", "2025-03-12", "pending", t0))

		Expect(err).To(MatchError(leave.ErrOverlapConflict))
		Expect(sqlDB.Close()).To(Succeed())
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})
})
