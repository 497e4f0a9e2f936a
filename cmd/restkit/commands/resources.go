package commands

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/restkit/pkg/restkit"
)

// deletable adds DELETE support to a resource for the delete command.
type deletable struct {
	restkit.Resource
}

func (d deletable) Delete(ctx context.Context, id string, opts ...restkit.CallOption) (any, error) {
	options := restkit.NewCallOptions(opts...)

	target := options.URL
	if target == "" {
		target = d.URL(id)
	}

	return d.Client().Request(ctx, http.MethodDelete, target,
		restkit.WithParams(options.Query))
}

// resourceCall resolves the resource named by path and runs call against it.
func resourceCall(cmd *cobra.Command, path string, call func(ctx context.Context, resource restkit.Resource) (any, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := createClient(ctx)
	if err != nil {
		return err
	}

	resource, err := resolveResource(client, path)
	if err != nil {
		return err
	}

	result, err := call(ctx, resource)
	if err != nil {
		return err
	}

	return renderResult(cmd.OutOrStdout(), result, viper.GetString("output"))
}

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var (
		query       []string
		overrideURL string
	)

	cmd := &cobra.Command{
		Use:   "get RESOURCE ID",
		Short: "Get a single item",
		Long:  "Fetch RESOURCE/ID, e.g. 'restkit get dragons dragon1'",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := callOptions(query, overrideURL)
			if err != nil {
				return err
			}

			return resourceCall(cmd, args[0], func(ctx context.Context, resource restkit.Resource) (any, error) {
				return resource.Get(ctx, args[1], opts...)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&overrideURL, "url", "", "request this URL instead of the resource path")

	return cmd
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var (
		query       []string
		overrideURL string
		paginate    bool
	)

	cmd := &cobra.Command{
		Use:   "list RESOURCE",
		Short: "List a collection",
		Long:  "List RESOURCE, e.g. 'restkit list launches/past --query limit=5'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := callOptions(query, overrideURL)
			if err != nil {
				return err
			}

			if paginate {
				opts = append(opts, restkit.Paginate())
			}

			return resourceCall(cmd, args[0], func(ctx context.Context, resource restkit.Resource) (any, error) {
				return resource.List(ctx, opts...)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&overrideURL, "url", "", "request this URL instead of the resource path")
	cmd.Flags().BoolVarP(&paginate, "paginate", "p", false, "follow Link headers and return all pages")

	return cmd
}

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var (
		query []string
		data  string
		form  []string
	)

	cmd := &cobra.Command{
		Use:   "create RESOURCE",
		Short: "Create an item",
		Long:  "POST a JSON body (--data '{...}' or --data @file) or a form (--form KEY=VALUE) to RESOURCE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := callOptions(query, "")
			if err != nil {
				return err
			}

			body, opts, err := requestBody(data, form, opts)
			if err != nil {
				return err
			}

			return resourceCall(cmd, args[0], func(ctx context.Context, resource restkit.Resource) (any, error) {
				return resource.Create(ctx, body, opts...)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter KEY=VALUE (repeatable)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON or YAML body, or @file")
	cmd.Flags().StringArrayVar(&form, "form", nil, "form field KEY=VALUE (repeatable)")

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var (
		query []string
		data  string
	)

	cmd := &cobra.Command{
		Use:   "update RESOURCE ID",
		Short: "Replace an item",
		Long:  "PUT a JSON body (--data '{...}' or --data @file) to RESOURCE/ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := callOptions(query, "")
			if err != nil {
				return err
			}

			body, opts, err := requestBody(data, nil, opts)
			if err != nil {
				return err
			}

			return resourceCall(cmd, args[0], func(ctx context.Context, resource restkit.Resource) (any, error) {
				return resource.Update(ctx, args[1], body, opts...)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter KEY=VALUE (repeatable)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON or YAML body, or @file")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	var query []string

	cmd := &cobra.Command{
		Use:   "delete RESOURCE ID",
		Short: "Delete an item",
		Long:  "Send DELETE to RESOURCE/ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := callOptions(query, "")
			if err != nil {
				return err
			}

			return resourceCall(cmd, args[0], func(ctx context.Context, resource restkit.Resource) (any, error) {
				return deletable{resource}.Delete(ctx, args[1], opts...)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter KEY=VALUE (repeatable)")

	return cmd
}

// requestBody returns the decoded --data body, or adds the --form fields to
// opts when no body was given.
func requestBody(data string, form []string, opts []restkit.CallOption) (any, []restkit.CallOption, error) {
	if data != "" {
		body, err := parseBody(data)
		if err != nil {
			return nil, nil, err
		}

		return body, opts, nil
	}

	if len(form) == 0 {
		return nil, nil, ErrBodyRequired
	}

	values, err := parseKeyValues(form)
	if err != nil {
		return nil, nil, err
	}

	return nil, append(opts, restkit.WithForm(values)), nil
}
