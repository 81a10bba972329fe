package repositories

import (
	"context"
	"time"

	"github.com/skill-eureka/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ApplicationRepository covers the creator application lifecycle and its
// confirmation codes. Approval issues a single-use code bound to the
// applicant's email; registration consumes the code and creates the
// verified creator in one transaction.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app *models.CreatorApplication) error
	GetApplicationByID(ctx context.Context, id primitive.ObjectID) (*models.CreatorApplication, error)
	ListApplications(ctx context.Context, status string) ([]models.CreatorApplication, error)
	ApproveApplication(ctx context.Context, id primitive.ObjectID, code string) (*models.CreatorApplication, error)
	RejectApplication(ctx context.Context, id primitive.ObjectID) (*models.CreatorApplication, error)
	VerifyCode(ctx context.Context, email, code string) error
	ConsumeCodeAndCreate(ctx context.Context, creator *models.Creator) error
}

// MongoApplicationRepository implements ApplicationRepository for MongoDB.
type MongoApplicationRepository struct {
	client       *mongo.Client
	applications *mongo.Collection
	codes        *mongo.Collection
	creators     *mongo.Collection
}

// NewMongoApplicationRepository creates a new MongoApplicationRepository.
func NewMongoApplicationRepository(client *mongo.Client, db *mongo.Database) *MongoApplicationRepository {
	return &MongoApplicationRepository{
		client:       client,
		applications: db.Collection("creator_applications"),
		codes:        db.Collection("creator_codes"),
		creators:     db.Collection("creators"),
	}
}

// CreateApplication inserts a pending application. The unique index on
// email makes a re-apply surface as ErrDuplicate.
func (r *MongoApplicationRepository) CreateApplication(ctx context.Context, app *models.CreatorApplication) error {
	res, err := r.applications.InsertOne(ctx, app)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	app.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoApplicationRepository) GetApplicationByID(ctx context.Context, id primitive.ObjectID) (*models.CreatorApplication, error) {
	var app models.CreatorApplication
	err := r.applications.FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *MongoApplicationRepository) ListApplications(ctx context.Context, status string) ([]models.CreatorApplication, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.applications.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var apps []models.CreatorApplication
	if err = cursor.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// ApproveApplication flips the application to approved and issues the
// confirmation code in one transaction. Re-approval replaces any earlier
// code for the email, so at most one code per applicant is live.
func (r *MongoApplicationRepository) ApproveApplication(ctx context.Context, id primitive.ObjectID, code string) (*models.CreatorApplication, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		app, err := r.setStatus(sc, id, models.ApplicationStatusApproved)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		record := models.CreatorCode{Email: app.Email, Code: code, Used: false, CreatedAt: now, UpdatedAt: now}
		_, err = r.codes.ReplaceOne(sc, bson.M{"email": app.Email}, record, options.Replace().SetUpsert(true))
		if err != nil {
			return nil, err
		}
		return app, nil
	}, options.Transaction())
	if err != nil {
		return nil, err
	}
	return result.(*models.CreatorApplication), nil
}

func (r *MongoApplicationRepository) RejectApplication(ctx context.Context, id primitive.ObjectID) (*models.CreatorApplication, error) {
	return r.setStatus(ctx, id, models.ApplicationStatusRejected)
}

func (r *MongoApplicationRepository) setStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.CreatorApplication, error) {
	var app models.CreatorApplication
	err := r.applications.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&app)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// VerifyCode checks a code without consuming it.
func (r *MongoApplicationRepository) VerifyCode(ctx context.Context, email, code string) error {
	var record models.CreatorCode
	err := r.codes.FindOne(ctx, bson.M{"email": email, "code": code}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrCodeInvalid
		}
		return err
	}
	if record.Used {
		return ErrCodeUsed
	}
	return nil
}

// ConsumeCodeAndCreate marks the creator's confirmation code used and
// inserts the creator record in one transaction. The code flip is a
// conditional update on used=false, so two racing registrations cannot both
// consume it; the loser fails with ErrCodeUsed and no creator is created.
func (r *MongoApplicationRepository) ConsumeCodeAndCreate(ctx context.Context, creator *models.Creator) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.codes.UpdateOne(sc,
			bson.M{"email": creator.Email, "code": creator.ConfirmationCode, "used": false},
			bson.M{"$set": bson.M{"used": true, "updated_at": time.Now()}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			count, err := r.codes.CountDocuments(sc, bson.M{"email": creator.Email, "code": creator.ConfirmationCode})
			if err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, ErrCodeUsed
			}
			return nil, ErrCodeInvalid
		}

		insert, err := r.creators.InsertOne(sc, creator)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrDuplicate
			}
			return nil, err
		}
		creator.ID = insert.InsertedID.(primitive.ObjectID)
		return nil, nil
	}, options.Transaction())
	return err
}
