package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/anneomcl/TeamWolverine/internal/auth"
	"github.com/anneomcl/TeamWolverine/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "путь к YAML-конфигурации (иначе GARDEN_CONFIG)")
		subject    = flag.String("subject", "operator", "имя оператора в токене")
		admin      = flag.Bool("admin", true, "выдать права администратора")
		ttl        = flag.Duration("ttl", 0, "срок жизни токена (по умолчанию из конфигурации)")
		newSecret  = flag.Bool("new-secret", false, "сгенерировать новый секрет и выйти")
	)
	flag.Parse()

	if *newSecret {
		fmt.Println(auth.GenerateSecureSecret())
		return
	}

	loaded, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	cfg := config.OrDefault(loaded)

	secret := cfg.Auth.GetSecret()
	if secret == "" {
		fmt.Fprintln(os.Stderr, "❌ Секрет не задан: укажите auth.secret или GARDEN_JWT_SECRET (см. -new-secret)")
		os.Exit(2)
	}

	signer, err := auth.NewSigner(secret)
	if err != nil {
		log.Fatalf("❌ Некорректный секрет: %v", err)
	}

	lifetime := *ttl
	if lifetime <= 0 {
		lifetime = cfg.Auth.TokenTTL()
	}

	token, err := signer.Issue(*subject, *admin, lifetime)
	if err != nil {
		log.Fatalf("❌ Ошибка выпуска токена: %v", err)
	}
	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "✅ Токен для %s (admin=%t) действителен %s\n", *subject, *admin, lifetime)
}
