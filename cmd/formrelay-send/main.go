package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-formrelay/internal/ingest/web3forms"
	"github.com/goliatone/go-formrelay/pkg/form"
	"github.com/goliatone/go-formrelay/pkg/submission"
)

func main() {
	formPath := flag.String("form", "", "form definition path or URL (built-in contact form if empty)")
	accessKey := flag.String("access-key", os.Getenv("WEB3FORMS_ACCESS_KEY"), "web3forms access key")
	endpoint := flag.String("endpoint", "", "override the submit endpoint")
	flag.Parse()

	ctx := context.Background()

	def, err := loadDefinition(ctx, *formPath)
	if err != nil {
		log.Fatalf("Failed to load form: %v", err)
	}

	values, err := promptValues(def)
	if err != nil {
		log.Fatalf("Aborted: %v", err)
	}

	controller := submission.New(def,
		submission.WithChallengeProvider(nil),
		submission.WithIngestClient(newClient(*accessKey, *endpoint)),
	)

	outcome, err := controller.Submit(ctx, values)
	if err != nil {
		log.Fatalf("Failed to submit: %v", err)
	}

	switch outcome.Disposition {
	case submission.Delivered:
		fmt.Printf("Delivered: %s\n", outcome.Status.Text)
	case submission.Rejected:
		fmt.Println("Rejected:")
		for _, issue := range outcome.Issues {
			fmt.Printf("  %s: %s\n", issue.Field, issue.Message)
		}
		os.Exit(1)
	default:
		fmt.Printf("Failed: %s (reference %s)\n", outcome.Status.Text, outcome.Reference)
		os.Exit(1)
	}
}

func loadDefinition(ctx context.Context, path string) (*form.Definition, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return form.DefaultContact(), nil
	}
	var (
		src     form.Source
		options []form.LoaderOption
	)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		src = form.SourceFromURL(path)
		options = append(options, form.WithHTTPClient(nil))
	} else {
		src = form.SourceFromFile(path)
	}
	return form.NewLoader(options...).Load(ctx, src)
}

func newClient(accessKey, endpoint string) *web3forms.Client {
	var options []web3forms.Option
	if key := strings.TrimSpace(accessKey); key != "" {
		options = append(options, web3forms.WithAccessKey(key))
	}
	if target := strings.TrimSpace(endpoint); target != "" {
		options = append(options, web3forms.WithEndpoint(target))
	}
	return web3forms.New(options...)
}

// promptValues walks the declared fields and collects answers interactively.
// The honeypot and token fields are never prompted for.
func promptValues(def *form.Definition) (url.Values, error) {
	values := url.Values{}
	for _, field := range def.Fields {
		if field.Type == form.FieldTypeHidden {
			continue
		}
		prompt := promptFor(field)

		switch field.Type {
		case form.FieldTypeCheckbox:
			checked := false
			if err := survey.AskOne(prompt, &checked); err != nil {
				return nil, err
			}
			if checked {
				values.Set(field.Name, "on")
			}
		default:
			answer := ""
			var opts []survey.AskOpt
			if field.Required {
				opts = append(opts, survey.WithValidator(survey.Required))
			}
			if err := survey.AskOne(prompt, &answer, opts...); err != nil {
				return nil, err
			}
			values.Set(field.Name, answer)
		}
	}
	return values, nil
}

func promptFor(field form.Field) survey.Prompt {
	label := field.Label
	if label == "" {
		label = field.Name
	}

	switch field.Type {
	case form.FieldTypeTextarea:
		return &survey.Multiline{Message: label, Help: field.Description}
	case form.FieldTypeCheckbox:
		return &survey.Confirm{Message: label, Help: field.Description}
	default:
		return &survey.Input{Message: label, Help: field.Description}
	}
}
