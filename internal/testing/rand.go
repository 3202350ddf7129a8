package testing

import (
	"math/rand"
	"strings"
)

const charSet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandString generates random string with n symbols from lower- and uppercase alphabet
func RandString(n int) string {
	var out strings.Builder
	out.Grow(n)
	for i := 0; i < n; i++ {
		out.WriteByte(charSet[rand.Intn(len(charSet))])
	}
	return out.String()
}

// RandUsername returns a username unlikely to collide with rows left by previous runs
func RandUsername() string {
	return "user_" + RandString(10)
}

// RandTitle returns a random chat title
func RandTitle() string {
	return "chat_" + RandString(10)
}
