// Package provider is the identity provider the directory delegates
// credential handling to. The rest of the app only sees the Provider
// interface; the embedded implementation keeps accounts in their own table
// and never shares records with the directory collections.
package provider

import (
	"context"
	"time"
)

type Account struct {
	ID                 string
	Email              string
	DisplayName        string
	MustChangePassword bool
	LastLoginAt        *time.Time
}

type SignInResult struct {
	Account Account
	Token   string
}

type Provider interface {
	// CreateAccount provisions a new account and returns its opaque id.
	CreateAccount(ctx context.Context, email, password, displayName string, mustChangePassword bool) (string, error)
	// SignIn verifies credentials, stamps the last-login time and returns
	// an auth token.
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	GetAccountByID(ctx context.Context, id string) (*Account, error)
	UpdatePassword(ctx context.Context, id, newPassword string) error
	// DeleteAccount removes a provisioned account. Used to compensate when
	// a directory insert fails after account creation succeeded.
	DeleteAccount(ctx context.Context, id string) error
}
