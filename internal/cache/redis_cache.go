package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"repairdesk/internal/domain"
)

const ticketKeyPrefix = "ticket:"

type RedisTicketCache struct {
	client *redis.Client
}

func NewRedisTicketCache(addr string, password string, db int) *RedisTicketCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisTicketCache{client: client}
}

func (c *RedisTicketCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisTicketCache) Close() error {
	return c.client.Close()
}

func (c *RedisTicketCache) Get(ctx context.Context, id string) (*domain.ServiceTicket, bool, error) {
	val, err := c.client.Get(ctx, ticketKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var ticket domain.ServiceTicket
	if err := json.Unmarshal(val, &ticket); err != nil {
		return nil, false, err
	}
	return &ticket, true, nil
}

func (c *RedisTicketCache) Set(ctx context.Context, ticket *domain.ServiceTicket, ttl time.Duration) error {
	if ticket == nil || ticket.ID == "" {
		return nil
	}
	payload, err := json.Marshal(ticket)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ticketKey(ticket.ID), payload, ttl).Err()
}

func (c *RedisTicketCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, ticketKey(id)).Err()
}

func ticketKey(id string) string {
	return ticketKeyPrefix + id
}
