package usecase

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// testMongo is nil when Docker is unavailable; integration tests skip themselves then.
var testMongo *mongo.Client

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(runWithMongo(m))
}

func runWithMongo(m *testing.M) int {
	if testing.Short() || os.Getenv("SKIP_DOCKER_TESTS") != "" {
		return m.Run()
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("Could not construct docker pool, integration tests skipped: %s", err)
		return m.Run()
	}
	if err := pool.Client.Ping(); err != nil {
		log.Printf("Could not connect to Docker, integration tests skipped: %s", err)
		return m.Run()
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "5.0",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Printf("Could not start MongoDB resource, integration tests skipped: %s", err)
		return m.Run()
	}
	defer func() {
		if err := pool.Purge(resource); err != nil {
			log.Printf("Could not purge MongoDB resource: %s", err)
		}
	}()
	_ = resource.Expire(300)

	uri := fmt.Sprintf("mongodb://%s", resource.GetHostPort("27017/tcp"))
	pool.MaxWait = 90 * time.Second
	if err := pool.Retry(func() error {
		client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
		if err != nil {
			return err
		}
		if err := client.Ping(context.Background(), nil); err != nil {
			_ = client.Disconnect(context.Background())
			return err
		}
		testMongo = client
		return nil
	}); err != nil {
		log.Printf("Could not connect to MongoDB, integration tests skipped: %s", err)
		return m.Run()
	}
	defer testMongo.Disconnect(context.Background())

	return m.Run()
}
