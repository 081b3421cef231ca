package database

import (
	"context"
	"fmt"
	"time"

	"apre_report/config"
	"apre_report/internal/logger"
	"apre_report/internal/registry"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// GetInstance khởi tạo *mongo.Client theo c.MongoDB_ConnectionURI và ping thử.
// Lỗi kết nối hoặc ping được trả về nguyên vẹn (đã bọc).
func GetInstance(c *config.Configuration) (*mongo.Client, error) {
	if c.MongoDB_ConnectionURI == "" {
		return nil, fmt.Errorf("database connection URL is empty")
	}

	// Báo cáo chỉ đọc, pool nhỏ là đủ
	clientOptions := options.Client().ApplyURI(c.MongoDB_ConnectionURI).
		SetMaxPoolSize(20).
		SetMinPoolSize(2).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(30 * time.Second).
		SetReadPreference(readpref.PrimaryPreferred())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	ctxPing, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelPing()

	if err = client.Ping(ctxPing, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.GetAppLogger().Info("Successfully connected to MongoDB")
	return client, nil
}

// CloseInstance đóng kết nối MongoDB
func CloseInstance(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.GetAppLogger().WithError(err).Error("Failed to disconnect MongoDB client")
		return err
	}
	logger.GetAppLogger().Info("Successfully disconnected from MongoDB")
	return nil
}

// RegisterCollections đăng ký các collection của db vào reg
func RegisterCollections(db *mongo.Database, reg *registry.Registry[*mongo.Collection], names ...string) error {
	for _, name := range names {
		registered, err := reg.Register(name, db.Collection(name))
		if err != nil {
			return fmt.Errorf("register collection %s: %w", name, err)
		}
		if registered {
			logger.WithCollection(name).Debug("Collection registered")
		} else {
			logger.WithCollection(name).Warn("Collection already registered")
		}
	}
	return nil
}
