package repository

import (
	"context"
	"testing"
	"time"

	"doctorsportal/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestDoctorRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := NewDoctorRepository(mt.DB, time.Second, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		doctor := &model.Doctor{Name: "Dr. Who", Email: "who@clinic.com", Specialty: "Dentistry"}
		require.NoError(mt, repo.Create(ctx, doctor))
		assert.NotEmpty(mt, doctor.ID)
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewDoctorRepository(mt.DB, time.Second, time.Second)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))

		err := repo.Create(ctx, &model.Doctor{Email: "who@clinic.com"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewDoctorRepository(mt.DB, time.Second, time.Second)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}})

		assert.ErrorIs(mt, repo.DeleteByEmail(ctx, "ghost@clinic.com"), ErrNotFound)
	})

	mt.Run("delete existing", func(mt *mtest.T) {
		repo := NewDoctorRepository(mt.DB, time.Second, time.Second)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}})

		assert.NoError(mt, repo.DeleteByEmail(ctx, "who@clinic.com"))
	})
}
