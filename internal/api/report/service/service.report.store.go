package reportsvc

import (
	"context"

	"apre_report/internal/common"
	"apre_report/internal/logger"
	"apre_report/internal/registry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store là lớp đọc dữ liệu báo cáo. Lỗi trả về đã qua common.ConvertMongoError.
type Store interface {
	// Aggregate chạy pipeline trên collection và decode toàn bộ kết quả vào out (con trỏ tới slice)
	Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline, out any) error
	// Find tìm theo filter với projection và decode vào out (con trỏ tới slice)
	Find(ctx context.Context, collection string, filter, projection any, out any) error
	// Distinct trả về các giá trị khác nhau của field
	Distinct(ctx context.Context, collection, field string) ([]any, error)
	// Ping kiểm tra kết nối
	Ping(ctx context.Context) error
}

// MongoStore cài đặt Store trên *mongo.Database.
// Collection lấy từ registry nếu đã đăng ký, nếu không thì từ db.
type MongoStore struct {
	db   *mongo.Database
	cols *registry.Registry[*mongo.Collection]
}

// NewMongoStore tạo store. cols có thể nil.
func NewMongoStore(db *mongo.Database, cols *registry.Registry[*mongo.Collection]) *MongoStore {
	return &MongoStore{db: db, cols: cols}
}

func (s *MongoStore) collection(name string) *mongo.Collection {
	if s.cols != nil {
		if col, ok := s.cols.Get(name); ok {
			return col
		}
	}
	return s.db.Collection(name)
}

// Aggregate chạy pipeline và đọc hết cursor
func (s *MongoStore) Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline, out any) error {
	cursor, err := s.collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		logger.WithCollection(collection).WithError(err).Error("Aggregate thất bại")
		return common.ConvertMongoError(err)
	}
	if err := cursor.All(ctx, out); err != nil {
		logger.WithCollection(collection).WithError(err).Error("Đọc cursor aggregate thất bại")
		return common.ConvertMongoError(err)
	}
	return nil
}

// Find tìm document theo filter với projection
func (s *MongoStore) Find(ctx context.Context, collection string, filter, projection any, out any) error {
	opts := options.Find()
	if projection != nil {
		opts.SetProjection(projection)
	}
	cursor, err := s.collection(collection).Find(ctx, filter, opts)
	if err != nil {
		logger.WithCollection(collection).WithError(err).Error("Find thất bại")
		return common.ConvertMongoError(err)
	}
	if err := cursor.All(ctx, out); err != nil {
		logger.WithCollection(collection).WithError(err).Error("Đọc cursor find thất bại")
		return common.ConvertMongoError(err)
	}
	return nil
}

// Distinct trả về giá trị distinct của field trên toàn collection
func (s *MongoStore) Distinct(ctx context.Context, collection, field string) ([]any, error) {
	values, err := s.collection(collection).Distinct(ctx, field, bson.D{})
	if err != nil {
		logger.WithCollection(collection).WithError(err).WithField("field", field).Error("Distinct thất bại")
		return nil, common.ConvertMongoError(err)
	}
	return values, nil
}

// Ping kiểm tra kết nối tới MongoDB
func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.db.Client().Ping(ctx, nil); err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}
