package database

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
)

// CosmosOptions names the database and container to open.
type CosmosOptions struct {
	ConnectionString string
	Database         string
	Container        string
	PartitionKeyPath string
}

// ConnectCosmos opens a Cosmos DB container, creating the database and the
// container (hash-partitioned on PartitionKeyPath) when they do not exist.
func ConnectCosmos(ctx context.Context, o CosmosOptions) (*azcosmos.ContainerClient, error) {
	client, err := azcosmos.NewClientFromConnectionString(o.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("cosmos client: %w", err)
	}

	if _, err := client.CreateDatabase(ctx, azcosmos.DatabaseProperties{ID: o.Database}, nil); err != nil && !IsCosmosStatus(err, http.StatusConflict) {
		return nil, fmt.Errorf("cosmos create database %q: %w", o.Database, err)
	}
	db, err := client.NewDatabase(o.Database)
	if err != nil {
		return nil, fmt.Errorf("cosmos database %q: %w", o.Database, err)
	}

	props := azcosmos.ContainerProperties{
		ID: o.Container,
		PartitionKeyDefinition: azcosmos.PartitionKeyDefinition{
			Paths: []string{o.PartitionKeyPath},
		},
	}
	if _, err := db.CreateContainer(ctx, props, nil); err != nil && !IsCosmosStatus(err, http.StatusConflict) {
		return nil, fmt.Errorf("cosmos create container %q: %w", o.Container, err)
	}
	container, err := db.NewContainer(o.Container)
	if err != nil {
		return nil, fmt.Errorf("cosmos container %q: %w", o.Container, err)
	}
	return container, nil
}

// IsCosmosStatus reports whether err is a Cosmos response with the given HTTP status.
func IsCosmosStatus(err error, status int) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == status
}
