//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"docvault/internal/audit"
	id "docvault/pkg/domain"
	"docvault/pkg/testutil/containers"
)

type KafkaSinkSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestKafkaSinkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSinkSuite))
}

func (s *KafkaSinkSuite) SetupSuite() {
	s.redpanda = containers.NewRedpandaContainer(s.T())
}

func (s *KafkaSinkSuite) TestPublishAndConsume() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	const topic = "docvault.audit.test"

	sink, err := audit.NewKafkaSink(ctx, []string{s.redpanda.Broker}, topic)
	s.Require().NoError(err)
	defer sink.Close()

	entry := audit.Entry{
		ID:          "entry-1",
		Action:      audit.ActionAccessGranted,
		Actor:       "0xowner",
		DocumentIDs: []id.DocumentID{1},
		Facilities:  []id.FacilityID{"0xclinic"},
		ExpiresAt:   200,
		RecordedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	s.Require().NoError(sink.Publish(ctx, entry))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().NoError(fetches.Err())
	records := fetches.Records()
	s.Require().Len(records, 1)

	s.Equal("0xowner", string(records[0].Key), "records are keyed by actor")

	var got audit.Entry
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal(entry.ID, got.ID)
	s.Equal(entry.Action, got.Action)
	s.Equal(entry.DocumentIDs, got.DocumentIDs)
	s.True(entry.RecordedAt.Equal(got.RecordedAt))
}
