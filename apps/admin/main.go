package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/maoni/core"
	"github.com/trezcool/maoni/core/user"
	"github.com/trezcool/maoni/storage/database"
	"github.com/trezcool/maoni/storage/docstore"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	usrRepo, err := setUpRepo(conf)
	errAndDie(err)

	validate := validator.New()
	core.InitValidators(validate, newTranslator())

	// start CLI; no email service: CLI-created accounts get no welcome mail
	cli := commandLine{
		usrSvc:   user.NewService(usrRepo, nil, conf),
		validate: validate,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
	fmt.Println("done")
}

func setUpRepo(conf *core.Config) (user.Repository, error) {
	if conf.Storage.Backend == "sqlite" {
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		return database.NewUserRepository(db)
	}
	store, err := docstore.Open(conf.Storage.Path)
	if err != nil {
		return nil, err
	}
	return docstore.NewUserRepository(store)
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
