// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command vapidkeys prints a fresh VAPID key pair in .env format.
//
//	go run ./cmd/vapidkeys >> .env
package main

import (
	"fmt"
	"os"

	webpush "github.com/SherClockHolmes/webpush-go"
)

func main() {
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vapidkeys: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("VAPID_PUBLIC_KEY=%s\n", publicKey)
	fmt.Printf("VAPID_PRIVATE_KEY=%s\n", privateKey)
}
