package main

import (
	"context"
	"flag"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sdk "github.com/luminolabs/lumino/sdk/go"
)

// command runs one CLI operation. Flags precede positional arguments.
type command func(ctx context.Context, client *sdk.Client, args []string) (any, error)

var groups = map[string]map[string]command{
	"user": {
		"me":       userMe,
		"update":   userUpdate,
		"settings": userSettings,
	},
	"api-keys": {
		"list":   apiKeysList,
		"get":    apiKeysGet,
		"create": apiKeysCreate,
		"update": apiKeysUpdate,
		"revoke": apiKeysRevoke,
	},
	"datasets": {
		"list":     datasetsList,
		"get":      datasetsGet,
		"upload":   datasetsUpload,
		"download": datasetsDownload,
		"update":   datasetsUpdate,
		"delete":   datasetsDelete,
	},
	"fine-tuning": {
		"list":    jobsList,
		"get":     jobsGet,
		"create":  jobsCreate,
		"cancel":  jobsCancel,
		"delete":  jobsDelete,
		"metrics": jobsMetrics,
		"logs":    jobsLogs,
	},
	"models": {
		"base":              modelsBase,
		"base-get":          modelsBaseGet,
		"fine-tuned":        modelsFineTuned,
		"fine-tuned-get":    modelsFineTunedGet,
		"fine-tuned-delete": modelsFineTunedDelete,
		"performance":       modelsPerformance,
		"compare":           modelsCompare,
	},
	"usage": {
		"total-cost": usageTotalCost,
		"records":    usageRecords,
	},
	"billing": {
		"credit-history": billingCreditHistory,
		"credits-add":    billingCreditsAdd,
		"credits-deduct": billingCreditsDeduct,
	},
}

func lookup(group, name string) (command, error) {
	cmds, ok := groups[group]
	if !ok {
		return nil, usagef("unknown group %q", group)
	}
	cmd, ok := cmds[name]
	if !ok {
		names := make([]string, 0, len(cmds))
		for n := range cmds {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, usagef("unknown %s command %q (want one of %s)", group, name, strings.Join(names, ", "))
	}
	return cmd, nil
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usagef("%s: %v", fs.Name(), err)
	}
	return nil
}

func requireArg(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() < 1 || fs.Arg(0) == "" {
		return "", usagef("%s: %s is required", fs.Name(), what)
	}
	return fs.Arg(0), nil
}

// nameCommand parses an invocation that takes no flags and one name.
func nameCommand(cmdName string, args []string) (string, error) {
	fs := newFlags(cmdName)
	if err := parse(fs, args); err != nil {
		return "", err
	}
	return requireArg(fs, "name")
}

func listFlags(fs *flag.FlagSet) *sdk.ListOptions {
	opts := &sdk.ListOptions{}
	fs.IntVar(&opts.Page, "page", sdk.DefaultPage, "page number")
	fs.IntVar(&opts.ItemsPerPage, "items", sdk.DefaultItemsPerPage, "items per page")
	return opts
}

type dateFlags struct {
	start, end *string
}

func addDateFlags(fs *flag.FlagSet) dateFlags {
	today := sdk.Today()
	return dateFlags{
		start: fs.String("start", today.AddDays(-30).String(), "start date (YYYY-MM-DD)"),
		end:   fs.String("end", today.String(), "end date (YYYY-MM-DD)"),
	}
}

func (d dateFlags) parse() (sdk.DateRange, error) {
	start, err := sdk.ParseDate(*d.start)
	if err != nil {
		return sdk.DateRange{}, usagef("-start: %v", err)
	}
	end, err := sdk.ParseDate(*d.end)
	if err != nil {
		return sdk.DateRange{}, usagef("-end: %v", err)
	}
	return sdk.DateRange{StartDate: start, EndDate: end}, nil
}

// setFlags reports which flags were given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func deleted(kind, name string) map[string]string {
	return map[string]string{"deleted": kind, "name": name}
}

func userMe(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	if err := parse(newFlags("user me"), args); err != nil {
		return nil, err
	}
	return client.Users.GetCurrentUser(ctx)
}

func userUpdate(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("user update")
	name := fs.String("name", "", "new display name")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	var update sdk.UserUpdate
	if setFlags(fs)["name"] {
		update.Name = sdk.Some(*name)
	}
	return client.Users.UpdateCurrentUser(ctx, update)
}

// userSettings prints the settings, or patches them when -set key=value is given.
func userSettings(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("user settings")
	var pairs multiFlag
	fs.Var(&pairs, "set", "key=value to update (repeatable)")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return client.Users.GetAccountSettings(ctx)
	}
	settings := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, usagef("user settings: -set wants key=value, got %q", pair)
		}
		settings[key] = value
	}
	return client.Users.UpdateAccountSettings(ctx, settings)
}

type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, ",") }
func (m *multiFlag) Set(v string) error { *m = append(*m, v); return nil }

func apiKeysList(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("api-keys list")
	opts := listFlags(fs)
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return client.APIKeys.List(ctx, *opts)
}

func apiKeysGet(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	name, err := nameCommand("api-keys get", args)
	if err != nil {
		return nil, err
	}
	return client.APIKeys.Get(ctx, name)
}

func apiKeysCreate(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("api-keys create")
	expiresIn := fs.Duration("expires-in", 30*24*time.Hour, "lifetime of the key")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	name, err := requireArg(fs, "name")
	if err != nil {
		return nil, err
	}
	req, err := sdk.NewAPIKeyCreate(name, time.Now().Add(*expiresIn))
	if err != nil {
		return nil, err
	}
	return client.APIKeys.Create(ctx, req)
}

func apiKeysUpdate(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("api-keys update")
	newName := fs.String("new-name", "", "new key name")
	expiresIn := fs.Duration("expires-in", 0, "new lifetime from now")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	name, err := requireArg(fs, "name")
	if err != nil {
		return nil, err
	}
	set := setFlags(fs)
	var update sdk.APIKeyUpdate
	if set["new-name"] {
		update.Name = sdk.Some(*newName)
	}
	if set["expires-in"] {
		update.ExpiresAt = sdk.Some(sdk.NewDateTime(time.Now().Add(*expiresIn)))
	}
	return client.APIKeys.Update(ctx, name, update)
}

func apiKeysRevoke(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	name, err := nameCommand("api-keys revoke", args)
	if err != nil {
		return nil, err
	}
	return client.APIKeys.Revoke(ctx, name)
}

func datasetsList(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("datasets list")
	opts := listFlags(fs)
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return client.Datasets.List(ctx, *opts)
}

func datasetsGet(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	name, err := nameCommand("datasets get", args)
	if err != nil {
		return nil, err
	}
	return client.Datasets.Get(ctx, name)
}

func datasetsUpload(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("datasets upload")
	file := fs.String("file", "", "path of the dataset file")
	description := fs.String("description", "", "dataset description")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	name, err := requireArg(fs, "name")
	if err != nil {
		return nil, err
	}
	if *file == "" {
		return nil, usagef("datasets upload: -file is required")
	}
	req, err := sdk.NewDatasetCreate(name, *description)
	if err != nil {
		return nil, err
	}
	return client.Datasets.Upload(ctx, *file, req)
}

func datasetsDownload(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("datasets download")
	out := fs.String("out", "", "output path (default <name>.jsonl)")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	name, err := requireArg(fs, "name")
	if err != nil {
		return nil, err
	}
	path := *out
	if path == "" {
		path = name + ".jsonl"
	}
	written, err := client.Datasets.Download(ctx, name, path)
	if err != nil {
		return nil, err
	}
	return map[string]any{"name": name, "path": path, "bytes": written}, nil
}

func datasetsUpdate(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("datasets update")
	newName := fs.String("new-name", "", "new dataset name")
	description := fs.String("description", "", "new description")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	name, err := requireArg(fs, "name")
	if err != nil {
		return nil, err
	}
	set := setFlags(fs)
	var update sdk.DatasetUpdate
	if set["new-name"] {
		update.Name = sdk.Some(*newName)
	}
	if set["description"] {
		update.Description = sdk.Some(*description)
	}
	return client.Datasets.Update(ctx, name, update)
}

func datasetsDelete(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	name, err := nameCommand("datasets delete", args)
	if err != nil {
		return nil, err
	}
	if err := client.Datasets.Delete(ctx, name); err != nil {
		return nil, err
	}
	return deleted("dataset", name), nil
}

func jobsList(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("fine-tuning list")
	opts := listFlags(fs)
	status := fs.String("status", "", "filter by job status")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	params := sdk.ListFineTuningJobsParams{ListOptions: *opts}
	if *status != "" {
		parsed, err := sdk.ParseFineTuningJobStatus(strings.ToUpper(*status))
		if err != nil {
			return nil, usagef("fine-tuning list: %v", err)
		}
		params.Status = parsed
	}
	return client.FineTuning.List(ctx, params)
}

func jobsGet(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	name, err := nameCommand("fine-tuning get", args)
	if err != nil {
		return nil, err
	}
	return client.FineTuning.Get(ctx, name)
}

func jobsCreate(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("fine-tuning create")
	defaults := sdk.DefaultFineTuningJobParameters()
	baseModel := fs.String("base-model", "", "base model name")
	dataset := fs.String("dataset", "", "dataset name")
	jobType := fs.String("type", string(sdk.FineTuningJobTypeLoRA), "FULL, LORA or QLORA")
	provider := fs.String("provider", string(sdk.ComputeProviderGCP), "GCP or LUM")
	batchSize := fs.Int("batch-size", defaults.BatchSize, "batch size (1-8)")
	epochs := fs.Int("epochs", defaults.NumEpochs, "number of epochs (1-10)")
	lr := fs.Float64("lr", defaults.LR, "learning rate (0-1]")
	shuffle := fs.Bool("shuffle", defaults.Shuffle, "shuffle the dataset")
	seed := fs.Int("seed", -1, "random seed (unset when negative)")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	name, err := requireArg(fs, "name")
	if err != nil {
		return nil, err
	}
	parsedType, err := sdk.ParseFineTuningJobType(strings.ToUpper(*jobType))
	if err != nil {
		return nil, usagef("fine-tuning create: %v", err)
	}
	parsedProvider, err := sdk.ParseComputeProvider(strings.ToUpper(*provider))
	if err != nil {
		return nil, usagef("fine-tuning create: %v", err)
	}
	params := sdk.FineTuningJobParameters{
		BatchSize: *batchSize,
		Shuffle:   *shuffle,
		NumEpochs: *epochs,
		LR:        *lr,
	}
	if *seed >= 0 {
		params = params.WithSeed(*seed)
	}
	req, err := sdk.NewFineTuningJobCreate(name, *baseModel, *dataset, parsedType, params)
	if err != nil {
		return nil, err
	}
	req.Provider = parsedProvider
	return client.FineTuning.Create(ctx, req)
}

func jobsCancel(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	name, err := nameCommand("fine-tuning cancel", args)
	if err != nil {
		return nil, err
	}
	return client.FineTuning.Cancel(ctx, name)
}

func jobsDelete(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	name, err := nameCommand("fine-tuning delete", args)
	if err != nil {
		return nil, err
	}
	if err := client.FineTuning.Delete(ctx, name); err != nil {
		return nil, err
	}
	return deleted("fine-tuning job", name), nil
}

func jobsMetrics(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	name, err := nameCommand("fine-tuning metrics", args)
	if err != nil {
		return nil, err
	}
	return client.FineTuning.Metrics(ctx, name)
}

func jobsLogs(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	name, err := nameCommand("fine-tuning logs", args)
	if err != nil {
		return nil, err
	}
	return client.FineTuning.Logs(ctx, name)
}

func modelsBase(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("models base")
	opts := listFlags(fs)
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return client.Models.ListBaseModels(ctx, *opts)
}

func modelsBaseGet(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	name, err := nameCommand("models base-get", args)
	if err != nil {
		return nil, err
	}
	return client.Models.GetBaseModel(ctx, name)
}

func modelsFineTuned(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("models fine-tuned")
	opts := listFlags(fs)
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return client.Models.ListFineTunedModels(ctx, *opts)
}

func modelsFineTunedGet(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	name, err := nameCommand("models fine-tuned-get", args)
	if err != nil {
		return nil, err
	}
	return client.Models.GetFineTunedModel(ctx, name)
}

func modelsFineTunedDelete(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	name, err := nameCommand("models fine-tuned-delete", args)
	if err != nil {
		return nil, err
	}
	if err := client.Models.DeleteFineTunedModel(ctx, name); err != nil {
		return nil, err
	}
	return deleted("fine-tuned model", name), nil
}

func modelsPerformance(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	name, err := nameCommand("models performance", args)
	if err != nil {
		return nil, err
	}
	return client.Models.GetPerformance(ctx, name)
}

func modelsCompare(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("models compare")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() < 2 {
		return nil, usagef("models compare: at least two model names are required")
	}
	return client.Models.Compare(ctx, fs.Args())
}

func usageTotalCost(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("usage total-cost")
	dates := addDateFlags(fs)
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	span, err := dates.parse()
	if err != nil {
		return nil, err
	}
	return client.Usage.GetTotalCost(ctx, span.StartDate, span.EndDate)
}

func usageRecords(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("usage records")
	dates := addDateFlags(fs)
	opts := listFlags(fs)
	service := fs.String("service", "", "filter by service name")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	span, err := dates.parse()
	if err != nil {
		return nil, err
	}
	params := sdk.UsageRecordsParams{DateRange: span, ListOptions: *opts}
	if *service != "" {
		parsed, err := sdk.ParseServiceName(strings.ToUpper(*service))
		if err != nil {
			return nil, usagef("usage records: %v", err)
		}
		params.ServiceName = parsed
	}
	return client.Usage.ListRecords(ctx, params)
}

func billingCreditHistory(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	fs := newFlags("billing credit-history")
	dates := addDateFlags(fs)
	opts := listFlags(fs)
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	span, err := dates.parse()
	if err != nil {
		return nil, err
	}
	return client.Billing.GetCreditHistory(ctx, sdk.CreditHistoryParams{DateRange: span, ListOptions: *opts})
}

func billingCreditsAdd(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	adj, err := creditAdjustment("billing credits-add", args)
	if err != nil {
		return nil, err
	}
	return client.Billing.AddCredits(ctx, adj)
}

func billingCreditsDeduct(ctx context.Context, client *sdk.Client, args []string) (any, error) {
	adj, err := creditAdjustment("billing credits-deduct", args)
	if err != nil {
		return nil, err
	}
	return client.Billing.DeductCredits(ctx, adj)
}

func creditAdjustment(cmdName string, args []string) (sdk.CreditAdjustment, error) {
	fs := newFlags(cmdName)
	user := fs.String("user", "", "user ID")
	credits := fs.String("credits", "", "amount of credits")
	txID := fs.String("transaction-id", "", "external transaction ID")
	if err := parse(fs, args); err != nil {
		return sdk.CreditAdjustment{}, err
	}
	userID, err := uuid.Parse(*user)
	if err != nil {
		return sdk.CreditAdjustment{}, usagef("%s: -user: %v", cmdName, err)
	}
	amount, err := decimal.NewFromString(*credits)
	if err != nil {
		return sdk.CreditAdjustment{}, usagef("%s: -credits: %v", cmdName, err)
	}
	return sdk.CreditAdjustment{UserID: userID, Credits: amount, TransactionID: *txID}, nil
}
