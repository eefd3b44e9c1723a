package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/five82/sitedeck/internal/api"
	"github.com/five82/sitedeck/internal/feedimport"
	"github.com/five82/sitedeck/internal/resource"
)

// ImportOptions configure a one-shot news import.
type ImportOptions struct {
	FeedURL string
	Limit   int
	// Email and Password sign in before importing. Without an email the
	// import fails unless the backend already knows the client.
	Email    string
	Password string
}

// ImportNews signs in and copies new feed items into the news list.
func ImportNews(ctx context.Context, opts Options, in ImportOptions) (feedimport.Result, error) {
	if in.FeedURL == "" {
		return feedimport.Result{}, errors.New("feed url is required")
	}
	svc, err := Setup(opts, nil)
	if err != nil {
		return feedimport.Result{}, err
	}
	defer svc.Close()

	if in.Email != "" {
		if _, err := svc.Auth.SignIn(ctx, in.Email, in.Password, nil); err != nil {
			if ve, ok := api.AsValidation(err); ok {
				return feedimport.Result{}, fmt.Errorf("sign in: %s", ve.Message)
			}
			return feedimport.Result{}, fmt.Errorf("sign in: %w", err)
		}
	} else if _, err := svc.Auth.CurrentUser(ctx); err != nil {
		return feedimport.Result{}, fmt.Errorf("not signed in: %w", err)
	}

	news := resource.News(svc.Deps)
	defer news.Close()
	return feedimport.New(news).Import(ctx, in.FeedURL, in.Limit)
}
