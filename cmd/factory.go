package cmd

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/montoya-e/laked/internal/core/domain"
	"github.com/montoya-e/laked/internal/core/services"
	"github.com/spf13/viper"
)

// loadStackService reads the descriptor from --cwd / --stack-file.
func loadStackService() (*services.StackService, error) {
	stackService, err := services.NewStackService(cwd, stackFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load stack file - %w", err)
	}
	if err := stackService.CheckMinVersion(); err != nil {
		return nil, err
	}
	return stackService, nil
}

func buildObjectStore() (*services.S3ObjectStore, error) {
	return services.NewS3ObjectStore(services.S3Source{
		Endpoint:  viper.GetString("s3.endpoint"),
		AccessKey: viper.GetString("s3.access_key"),
		SecretKey: viper.GetString("s3.secret_key"),
		Region:    viper.GetString("s3.region"),
		Bucket:    viper.GetString("s3.bucket"),
		Prefix:    viper.GetString("s3.prefix"),
		Insecure:  viper.GetBool("s3.insecure"),
	})
}

// buildDocumentStore derives the mongo endpoint from the stack
// descriptor, with viper overrides taking precedence.
func buildDocumentStore(ctx context.Context, stackService *services.StackService) (*services.MongoDocumentStore, error) {
	endpoint, err := stackService.MongoEndpoint()
	if err != nil {
		return nil, err
	}
	applyMongoOverrides(endpoint)

	return services.NewMongoDocumentStore(ctx, endpoint, viper.GetString("mongo.collection"))
}

func applyMongoOverrides(endpoint *domain.MongoEndpoint) {
	if host := viper.GetString("mongo.host"); host != "" {
		endpoint.Host = host
	}
	if port := viper.GetInt("mongo.port"); port != 0 {
		endpoint.Port = port
	}
	if database := viper.GetString("mongo.database"); database != "" {
		endpoint.Database = database
	}
}

func buildWarehouseDB(stackService *services.StackService) (*sql.DB, error) {
	endpoint, err := stackService.MySQLEndpoint()
	if err != nil {
		return nil, err
	}
	if host := viper.GetString("mysql.host"); host != "" {
		endpoint.Host = host
	}
	if port := viper.GetInt("mysql.port"); port != 0 {
		endpoint.Port = port
	}

	db, err := sql.Open("mysql", endpoint.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse connection - %w", err)
	}
	return db, nil
}
