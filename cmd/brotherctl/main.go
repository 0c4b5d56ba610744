// brotherctl выполняет один полный опрос станка и печатает результат.
// Удобно для проверки связи и описания позиций без запуска агента.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	brother "github.com/iwtcode/brotherAdapter"
	"github.com/iwtcode/brotherAdapter/brother/decoder"
	"github.com/iwtcode/brotherAdapter/brother/snapshot"
	"github.com/iwtcode/brotherAdapter/mtconnect"
	"github.com/joho/godotenv"
)

// runStep выполняет один шаг опроса с отдельным таймаутом.
func runStep(name string, timeout time.Duration, fn func(ctx context.Context) error) bool {
	log.Printf("--- Запуск шага: %s ---", name)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		log.Printf("Ошибка выполнения на шаге %s: %v", name, err)
		return false
	}
	log.Printf("--- Шаг %s выполнен успешно ---", name)
	return true
}

func main() {
	envFile := flag.String("env", "./.env", "файл с переменными окружения")
	xmlOut := flag.String("xml", "", "сохранить документ MTConnect current в файл")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("Warning: Could not load %s. Using environment variables: %v", *envFile, err)
	}

	cfg := brother.Load()
	log.Printf("Конфигурация загружена: endpoint=%s, unit=%s, timeout=%dms", cfg.Endpoint(), cfg.Unit, cfg.TimeoutMs)

	client, err := brother.New(cfg)
	if err != nil {
		log.Fatalf("Не удалось создать клиента: %v", err)
	}
	defer client.Close()

	stepTimeout := 4 * cfg.Timeout()
	ok := runStep("DetectVersion", stepTimeout, func(ctx context.Context) error {
		version, err := client.DetectVersion(ctx)
		if err != nil {
			return err
		}
		log.Printf("Поколение ЧПУ: %s", version)
		return nil
	})
	if !ok {
		os.Exit(1)
	}

	snap := snapshot.New()
	var decoders []decoder.Decoder
	decoders = append(decoders, client.FastDecoders()...)
	decoders = append(decoders, client.SlowDecoders()...)
	for _, d := range decoders {
		runStep(d.Family(), stepTimeout, func(ctx context.Context) error {
			fields, err := client.Read(ctx, d, snap)
			if err != nil {
				return err
			}
			snap.Merge(fields)
			printAsJSON(d.Family(), fields)
			return nil
		})
	}
	log.Printf("Сбор данных завершен, полей: %d", snap.Len())

	if *xmlOut != "" {
		writeCurrent(*xmlOut, snap)
	}
}

func writeCurrent(path string, snap *snapshot.Snapshot) {
	info := mtconnect.DeviceInfo{
		Name:       "brother",
		UUID:       mtconnect.DeviceUUID(),
		Sender:     "brotherctl",
		InstanceID: time.Now().Unix(),
	}
	body, err := mtconnect.RenderCurrent(info, snap.Read(), time.Now())
	if err != nil {
		log.Fatalf("Не удалось сформировать документ: %v", err)
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		log.Fatalf("Не удалось записать %s: %v", path, err)
	}
	log.Printf("Документ MTConnect сохранен в %s", path)
}

// printAsJSON форматирует данные в JSON и выводит в stdout
func printAsJSON(name string, data any) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Printf("Ошибка маршалинга JSON для %s: %v", name, err)
		return
	}
	fmt.Printf("--- %s ---\n%s\n", name, string(jsonData))
}
