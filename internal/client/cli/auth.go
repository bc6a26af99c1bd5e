package cli

import (
	"context"
	"os"
)

// getSimpleText and getPassword are indirections used in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) register(ctx context.Context) {
	username, err := getSimpleText(a.reader, "Choose a username", os.Stdout)
	if err != nil {
		printlnFn("Input error:", err.Error())
		return
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		printlnFn("Input error:", err.Error())
		return
	}

	if err := a.session.Register(ctx, username, password); err != nil {
		printlnFn("Registration failed:", err.Error())
		return
	}
	a.userName = username
	printlnFn("Welcome,", username)

	go a.lifecycle.Bootstrap(ctx)
}

func (a *App) login(ctx context.Context) {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		printlnFn("Input error:", err.Error())
		return
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		printlnFn("Input error:", err.Error())
		return
	}

	if err := a.session.Login(ctx, username, password); err != nil {
		printlnFn("Login failed:", err.Error())
		return
	}
	a.userName = username
	printlnFn("Logged in as", username)

	go a.lifecycle.Bootstrap(ctx)
}

func (a *App) logout(ctx context.Context) {
	if err := a.session.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return
	}
	a.userName = ""
	printlnFn("Logged out. Local data is kept on this device.")
}
