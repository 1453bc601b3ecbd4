package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/umputun/go-flags"

	"github.com/jobmeta/metastore"
	"github.com/jobmeta/metastore/pkg/schedule"
)

var opts struct {
	Connect  string `long:"connect" env:"JOBMETA_CONNECT" description:"metastore connect string"`
	User     string `long:"user" env:"JOBMETA_USER" description:"metastore user"`
	Password string `long:"password" env:"JOBMETA_PASSWORD" description:"metastore password"`
	Driver   string `long:"driver" env:"JOBMETA_DRIVER" description:"metastore driver"`
	Profile  string `short:"p" long:"profile" env:"JOBMETA_PROFILE" description:"yaml profile with metastore settings"`
	Dbg      bool   `long:"dbg" env:"JOBMETA_DEBUG" description:"debug mode"`

	ListCmd   listCommand   `command:"list" description:"list saved jobs"`
	ShowCmd   showCommand   `command:"show" description:"show one saved job"`
	CreateCmd createCommand `command:"create" description:"create a saved job"`
	UpdateCmd updateCommand `command:"update" description:"replace a saved job"`
	DeleteCmd deleteCommand `command:"delete" description:"delete a saved job"`
	ResetCmd  resetCommand  `command:"reset" description:"drop the metastore tables"`
}

var revision = "unknown"

func main() {
	fmt.Printf("jobmeta %s\n", revision)

	p := flags.NewParser(&opts, flags.Default)
	p.CommandHandler = func(cmd flags.Commander, args []string) error {
		setupLogs(opts.Dbg)
		if cmd == nil {
			return errors.New("no command given")
		}
		return cmd.Execute(args)
	}
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// openStorage builds the descriptor from profile + flags, selects a
// backend and opens it. Callers must Close.
func openStorage(ctx context.Context) (metastore.Storage, error) {
	prof, err := loadProfile(opts.Profile)
	if err != nil {
		return nil, err
	}
	desc := buildDescriptor(prof, opts.Connect, opts.User, opts.Password, opts.Driver)

	st, err := metastore.GetStorage(desc)
	if err != nil {
		return nil, err
	}
	log.Printf("[DEBUG] selected backend %T", st)
	if err := st.Open(ctx, desc); err != nil {
		return nil, err
	}
	return st, nil
}

type listCommand struct{}

func (c *listCommand) Execute(_ []string) error {
	ctx := context.Background()
	st, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if e := st.Close(); e != nil {
			log.Printf("[WARN] close failed, %v", e)
		}
	}()

	names, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no saved jobs")
		return nil
	}
	for _, name := range names {
		meta, err := st.Describe(ctx, name)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%s\ttool=%s\tcreated=%s", meta.Name, meta.Tool, meta.CreatedAt.Format(time.RFC3339))
		if next, ok := nextRun(ctx, st, name); ok {
			line += "\tnext-run=" + next.Format(time.RFC3339)
		}
		fmt.Println(line)
	}
	return nil
}

// nextRun reports the next run time for jobs carrying a schedule option.
func nextRun(ctx context.Context, st metastore.Storage, name string) (time.Time, bool) {
	rec, err := st.Read(ctx, name)
	if err != nil {
		log.Printf("[WARN] can't read %q for schedule, %v", name, err)
		return time.Time{}, false
	}
	expr, ok := rec.String(metastore.ScheduleOption)
	if !ok {
		return time.Time{}, false
	}
	sched, err := schedule.Parse(expr)
	if err != nil {
		log.Printf("[WARN] job %q has unparsable schedule %q, %v", name, expr, err)
		return time.Time{}, false
	}
	return sched.Next(time.Now()), true
}

type showCommand struct {
	Args struct {
		Name string `positional-arg-name:"NAME" required:"true"`
	} `positional-args:"true"`
}

func (c *showCommand) Execute(_ []string) error {
	ctx := context.Background()
	st, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	meta, err := st.Describe(ctx, c.Args.Name)
	if err != nil {
		return err
	}
	rec, err := st.Read(ctx, c.Args.Name)
	if err != nil {
		return err
	}

	fmt.Printf("job: %s\nid: %s\ntool: %s\ncreated: %s\nupdated: %s\n",
		meta.Name, meta.ID, meta.Tool, meta.CreatedAt.Format(time.RFC3339), meta.UpdatedAt.Format(time.RFC3339))
	for _, name := range rec.Names() {
		f, _ := rec.Field(name)
		switch f.Kind {
		case metastore.KindString:
			fmt.Printf("  %s = %s\n", name, f.Str)
		case metastore.KindInt:
			fmt.Printf("  %s = %d\n", name, f.Int)
		case metastore.KindBool:
			fmt.Printf("  %s = %v\n", name, f.Bool)
		case metastore.KindStringList:
			fmt.Printf("  %s = [%s]\n", name, strings.Join(f.List, ", "))
		}
	}
	return nil
}

type recordFlags struct {
	Tool     string   `long:"tool" required:"true" description:"tool the job invokes"`
	Set      []string `long:"set" description:"string option, key=value"`
	SetInt   []string `long:"set-int" description:"integer option, key=value"`
	SetBool  []string `long:"set-bool" description:"boolean option, key=value"`
	SetList  []string `long:"set-list" description:"list option, key=a,b,c"`
	Schedule string   `long:"schedule" description:"cron schedule annotation"`
}

// buildRecord turns the record flags into a JobRecord.
func (rf *recordFlags) buildRecord() (*metastore.JobRecord, error) {
	rec := metastore.NewJobRecord(rf.Tool)

	for _, kv := range rf.Set {
		k, v, err := splitOption(kv)
		if err != nil {
			return nil, err
		}
		rec.SetString(k, v)
	}
	for _, kv := range rf.SetInt {
		k, v, err := splitOption(kv)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", k, err)
		}
		rec.SetInt(k, n)
	}
	for _, kv := range rf.SetBool {
		k, v, err := splitOption(kv)
		if err != nil {
			return nil, err
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", k, err)
		}
		rec.SetBool(k, b)
	}
	for _, kv := range rf.SetList {
		k, v, err := splitOption(kv)
		if err != nil {
			return nil, err
		}
		rec.SetStrings(k, strings.Split(v, ","))
	}
	if rf.Schedule != "" {
		rec.SetString(metastore.ScheduleOption, rf.Schedule)
	}
	return rec, nil
}

func splitOption(kv string) (key, val string, err error) {
	key, val, found := strings.Cut(kv, "=")
	if !found || key == "" {
		return "", "", fmt.Errorf("option %q is not key=value", kv)
	}
	return key, val, nil
}

type createCommand struct {
	recordFlags
	Args struct {
		Name string `positional-arg-name:"NAME" required:"true"`
	} `positional-args:"true"`
}

func (c *createCommand) Execute(_ []string) error {
	rec, err := c.buildRecord()
	if err != nil {
		return err
	}
	ctx := context.Background()
	st, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.Create(ctx, c.Args.Name, rec); err != nil {
		return err
	}
	log.Printf("[INFO] created job %q (tool %s)", c.Args.Name, rec.Tool())
	return nil
}

type updateCommand struct {
	recordFlags
	Args struct {
		Name string `positional-arg-name:"NAME" required:"true"`
	} `positional-args:"true"`
}

func (c *updateCommand) Execute(_ []string) error {
	rec, err := c.buildRecord()
	if err != nil {
		return err
	}
	ctx := context.Background()
	st, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.Update(ctx, c.Args.Name, rec); err != nil {
		return err
	}
	log.Printf("[INFO] updated job %q (tool %s)", c.Args.Name, rec.Tool())
	return nil
}

type deleteCommand struct {
	Args struct {
		Name string `positional-arg-name:"NAME" required:"true"`
	} `positional-args:"true"`
}

func (c *deleteCommand) Execute(_ []string) error {
	ctx := context.Background()
	st, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.Delete(ctx, c.Args.Name); err != nil {
		return err
	}
	log.Printf("[INFO] deleted job %q", c.Args.Name)
	return nil
}

type resetCommand struct {
	Force bool `long:"force" description:"required, drops all saved jobs"`
}

func (c *resetCommand) Execute(_ []string) error {
	if !c.Force {
		return errors.New("reset drops all saved jobs, rerun with --force")
	}
	ctx := context.Background()
	st, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	dropper, ok := st.(interface{ DropSchema(context.Context) error })
	if !ok {
		return fmt.Errorf("backend %T does not support reset", st)
	}
	if err := dropper.DropSchema(ctx); err != nil {
		return err
	}
	log.Printf("[INFO] metastore schema dropped")
	return nil
}

func setupLogs(dbg bool) {
	if dbg {
		log.Setup(log.Debug, log.Msec, log.CallerFunc, log.CallerPkg, log.CallerFile)
		return
	}
	log.Setup(log.Msec)
}
