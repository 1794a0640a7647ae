package model

import (
	"time"

	"golang.org/x/oauth2"
)

// Credential is the OAuth2 token set persisted between runs.
type Credential struct {
	AccessToken  string    `json:"access_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
	Scope        string    `json:"scope,omitempty"`
	// ExpiryDate is the epoch-millisecond expiry written by older token files.
	ExpiryDate int64 `json:"expiry_date,omitempty"`
}

// HasRefreshToken reports whether the credential can mint access tokens
// without operator interaction.
func (c *Credential) HasRefreshToken() bool {
	return c != nil && c.RefreshToken != ""
}

// Token converts the credential into an oauth2 token.
func (c *Credential) Token() *oauth2.Token {
	expiry := c.Expiry
	if expiry.IsZero() && c.ExpiryDate > 0 {
		expiry = time.UnixMilli(c.ExpiryDate)
	}
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    c.TokenType,
		RefreshToken: c.RefreshToken,
		Expiry:       expiry,
	}
}

// CredentialFromToken builds a credential from a freshly exchanged token.
func CredentialFromToken(tok *oauth2.Token) *Credential {
	cred := &Credential{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		cred.Scope = scope
	}
	return cred
}
