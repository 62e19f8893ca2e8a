package main

import (
	"context"
	"fmt"
	"os"

	"github.com/himanishpuri/AcousticScore/pkg/logger"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Printf("\n❌ %v\n", err)
		logger.GetLogger().Errorf("Command failed: %v", err)
		os.Exit(1)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func printBanner() {
	banner := `
    _                       _   _      ____                      
   / \   ___ ___  _   _ ___| |_(_) ___/ ___|  ___ ___  _ __ ___ 
  / _ \ / __/ _ \| | | / __| __| |/ __\___ \ / __/ _ \| '__/ _ \
 / ___ \ (_| (_) | |_| \__ \ |_| | (__ ___) | (_| (_) | | |  __/
/_/   \_\___\___/ \__,_|___/\__|_|\___|____/ \___\___/|_|  \___|

           Audio to Sheet Music CLI Tool
`
	fmt.Println(banner)
}
