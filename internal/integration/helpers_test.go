//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const kafkaImage = "confluentinc/confluent-local:7.5.0"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, kafkaImage, tckafka.WithClusterID("covid-bot-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

const statewiseJSON = `{"statewise":[
  {"state":"Total","statecode":"TT","confirmed":"300","recovered":"170","deaths":"10","active":"120"},
  {"state":"Kerala","statecode":"KL","confirmed":"100","recovered":"80","deaths":"2","active":"18"},
  {"state":"Telangana","statecode":"TG","confirmed":"150","recovered":"54","deaths":"6","active":"90"}
]}`

const ministryJSON = `[
  {"state_name":"Kerala","new_active":"18","new_cured":"85","new_death":"2","new_positive":"105"},
  {"state_name":"Telengana","new_active":"90","new_cured":"54","new_death":"6","new_positive":"150"}
]`

// providerServer stands in for the aggregator and MoHFW endpoints.
func providerServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/data.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, statewiseJSON)
	})
	mux.HandleFunc("/data/datanew.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, ministryJSON)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
