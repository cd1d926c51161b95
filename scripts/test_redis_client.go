package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/atlasrent/backend/internal/pkg/redis"
)

func main() {
	fmt.Println("=========================================")
	fmt.Println("Redis Client Test")
	fmt.Println("=========================================")
	fmt.Println()

	// Создаем Redis клиент
	client, err := redis.NewClient(redis.Config{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	if err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Println("✅ Connected to Redis")
	fmt.Println()

	ctx := context.Background()

	// Test 1: PING
	fmt.Println("Test 1: PING")
	if err := client.Ping(ctx); err != nil {
		fmt.Printf("❌ PING failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ PING successful")
	fmt.Println()

	// Test 2: SET/GET
	fmt.Println("Test 2: SET/GET")
	testKey := "test:atlasrent:key"
	testValue := `{"total":10,"available":7,"reserved":2,"rented":1}`

	if err := client.Set(ctx, testKey, testValue, 1*time.Minute); err != nil {
		fmt.Printf("❌ SET failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ SET %s = %s\n", testKey, testValue)

	value, err := client.Get(ctx, testKey)
	if err != nil {
		fmt.Printf("❌ GET failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ GET %s = %s\n", testKey, value)
	fmt.Println()

	// Test 3: DEL
	fmt.Println("Test 3: DEL")
	if err := client.Del(ctx, testKey); err != nil {
		fmt.Printf("❌ DEL failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ DEL %s\n", testKey)

	if _, err := client.Get(ctx, testKey); err == nil {
		fmt.Println("❌ Key still exists after DEL")
		os.Exit(1)
	}
	fmt.Println("✅ Key removed")
	fmt.Println()

	fmt.Println("=========================================")
	fmt.Println("All tests passed")
	fmt.Println("=========================================")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
