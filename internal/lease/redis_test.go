package lease_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/thedreamteamconsultancy/workstatus/internal/lease"
)

type RedisLeaseSuite struct {
	suite.Suite
	container testcontainers.Container
	lease     *lease.Redis
	ctx       context.Context
}

func (s *RedisLeaseSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)
	port, err := container.MappedPort(s.ctx, "6379")
	require.NoError(s.T(), err)

	client := lease.NewClient(fmt.Sprintf("%s:%s", host, port.Port()))
	s.lease = lease.NewRedis(client, time.Minute)
	require.NoError(s.T(), s.lease.Ping(s.ctx))
}

func (s *RedisLeaseSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *RedisLeaseSuite) TestAcquireIsExclusive() {
	id := uuid.New()

	ok, err := s.lease.Acquire(s.ctx, id)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.lease.Acquire(s.ctx, id)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisLeaseSuite) TestReleaseCooldownExpires() {
	id := uuid.New()

	_, err := s.lease.Acquire(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NoError(s.lease.Release(s.ctx, id, 200*time.Millisecond))

	s.Eventually(func() bool {
		ok, err := s.lease.Acquire(s.ctx, id)
		return err == nil && ok
	}, 3*time.Second, 50*time.Millisecond)
}

func (s *RedisLeaseSuite) TestReleaseWithoutCooldown() {
	id := uuid.New()

	_, err := s.lease.Acquire(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NoError(s.lease.Release(s.ctx, id, 0))

	ok, err := s.lease.Acquire(s.ctx, id)
	s.Require().NoError(err)
	s.True(ok)
}

func TestRedisLeaseSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis integration tests in short mode")
	}
	suite.Run(t, new(RedisLeaseSuite))
}
