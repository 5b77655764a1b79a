package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/caarlos0/env/v9"
	"github.com/google/uuid"
	"github.com/spacehub/spacehub-backend/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	StorageBucket  string `env:"STORAGE_BUCKET,required"`
	DBHost         string `env:"DB_HOST,required"`
	DBUser         string `env:"DB_USER,required"`
	DBPassword     string `env:"DB_PASSWORD,required"`
	DBName         string `env:"DB_NAME,required"`
	DBPort         string `env:"DB_PORT" envDefault:"3306"`
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS" envDefault:"300"`
	ForceUpdate    bool   `env:"FORCE_UPDATE" envDefault:"false"`
}

func main() {
	ctx := context.Background()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse env: %v", err)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := connectDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql db: %v", err)
	}
	defer sqlDB.Close()

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}
	defer storageClient.Close()

	quotes, err := quotesNeedingPhotos(ctx, db, cfg.ForceUpdate)
	if err != nil {
		log.Fatalf("failed to list quotes: %v", err)
	}
	if len(quotes) == 0 {
		log.Println("no quotes need photos")
		return
	}

	updated := 0
	for _, q := range quotes {
		photo, err := fetchPlaceholder(ctx, fmt.Sprintf("space-%d", q.ID))
		if err != nil {
			log.Printf("placeholder failed for quote %d: %v", q.ID, err)
			continue
		}
		path := fmt.Sprintf("spaces/quote-%d.jpg", q.ID)
		publicURL, err := uploadWithToken(ctx, storageClient, cfg.StorageBucket, path, photo)
		if err != nil {
			log.Printf("upload failed for quote %d: %v", q.ID, err)
			continue
		}
		if err := db.WithContext(ctx).Model(&model.Quote{}).
			Where("id = ?", q.ID).
			Update("photo_url", publicURL).Error; err != nil {
			log.Printf("update failed for quote %d: %v", q.ID, err)
			continue
		}
		log.Printf("done quote=%d url=%s", q.ID, publicURL)
		updated++
	}

	log.Printf("seed-photos completed: %d/%d quotes updated", updated, len(quotes))
}

func connectDB(cfg Config) (*gorm.DB, error) {
	var dsn string
	if strings.HasPrefix(cfg.DBHost, "/cloudsql/") {
		log.Printf("db connect via unix socket: %s", cfg.DBHost)
		dsn = fmt.Sprintf("%s:%s@unix(%s)/%s?parseTime=true&charset=utf8mb4&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBName)
	} else {
		log.Printf("db connect via tcp: %s:%s", cfg.DBHost, cfg.DBPort)
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

func quotesNeedingPhotos(ctx context.Context, db *gorm.DB, force bool) ([]model.Quote, error) {
	var quotes []model.Quote
	q := db.WithContext(ctx).Model(&model.Quote{}).Select("id")
	if !force {
		q = q.Where("photo_url IS NULL OR photo_url = ''")
	}
	if err := q.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

func fetchPlaceholder(ctx context.Context, seed string) ([]byte, error) {
	u := fmt.Sprintf("https://picsum.photos/seed/%s/800/600", url.PathEscape(seed))
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("placeholder status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func uploadWithToken(ctx context.Context, client *storage.Client, bucketName, objectPath string, data []byte) (string, error) {
	if bucketName == "" {
		return "", errors.New("bucket name is empty")
	}
	token := uuid.NewString()
	obj := client.Bucket(bucketName).Object(objectPath)
	w := obj.NewWriter(ctx)
	w.ContentType = "image/jpeg"
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := w.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	escapedPath := url.PathEscape(objectPath)
	publicURL := fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucketName, escapedPath, token)
	return publicURL, nil
}
