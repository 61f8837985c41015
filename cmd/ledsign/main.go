package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ivlev/ledsign/internal/config"
	"github.com/ivlev/ledsign/internal/program"
	"github.com/ivlev/ledsign/internal/source"
	"github.com/ivlev/ledsign/internal/system"
)

var buildVersion = "dev"

func main() {
	// Создаем нужные директории, если их нет
	for _, d := range []string{"signs", "output"} {
		os.MkdirAll(d, 0755)
	}

	inputPtr := flag.String("input", "", "Путь к документу табло (по умолчанию: самый свежий .yaml в signs/)")
	modePtr := flag.String("mode", config.ModeSimulate, "Режим: simulate, play, export")
	outputPtr := flag.String("output", "", "Путь к результату экспорта (если пусто, генерируется автоматически в output/)")
	formatPtr := flag.String("format", config.FormatGIF, "Формат экспорта: gif, png, mp4")
	symbolsPtr := flag.String("symbols", "", "Папка с иконками для символов")
	fpsPtr := flag.Int("fps", 30, "FPS")
	durationPtr := flag.Float64("duration", 0, "Длительность в секундах (0 = один проход всех программ, в режиме play без ограничения)")
	loopPtr := flag.Bool("loop", true, "Зациклить программы")
	scalePtr := flag.Int("scale", 6, "Пикселей на одну точку табло")
	workersPtr := flag.Int("workers", 0, "Потоки рендеринга (0 = авто)")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности и записать benchmark.log")
	verbosePtr := flag.Bool("verbose", false, "Подробный лог, включая прогресс переходов")
	initPtr := flag.Bool("init", false, "Создать пример документа в signs/ и выйти")

	flag.Parse()

	level := slog.LevelWarn
	if *verbosePtr {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *initPtr {
		path := program.GenerateDocumentPath("signs")
		if err := program.WriteDocument(sampleDocument(), path); err != nil {
			log.Fatalf("[-] Ошибка записи документа: %v", err)
		}
		fmt.Printf("[+++] Успех! Документ сохранен: %s\n", path)
		return
	}

	cfg := &config.Config{
		DocumentPath: *inputPtr,
		SymbolsDir:   *symbolsPtr,
		Mode:         *modePtr,
		OutputPath:   *outputPtr,
		Format:       *formatPtr,
		FPS:          *fpsPtr,
		Duration:     *durationPtr,
		Loop:         *loopPtr,
		Scale:        *scalePtr,
		Workers:      *workersPtr,
		Quality:      *qualityPtr,
		ShowStats:    *statsPtr,
		Verbose:      *verbosePtr,
		BuildVersion: buildVersion,
	}
	cfg.ApplyDefaults()

	if cfg.DocumentPath == "" {
		latest, err := program.FindLatestDocument("signs")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите документ в signs/ или запустите с -init", err)
		}
		cfg.DocumentPath = latest
		fmt.Printf("[*] Выбран файл: %s\n", cfg.DocumentPath)
	}

	if cfg.Mode == config.ModeExport && cfg.OutputPath == "" {
		base := strings.TrimSuffix(filepath.Base(cfg.DocumentPath), filepath.Ext(cfg.DocumentPath))
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		name := fmt.Sprintf("%s_%s", strings.ReplaceAll(base, " ", "_"), timestamp)
		if cfg.Format != config.FormatPNG {
			name += "." + cfg.Format
		}
		cfg.OutputPath = filepath.Join("output", name)
	}

	if cfg.Mode == config.ModeExport && cfg.Format == config.FormatMP4 {
		if !system.HasFFmpeg() {
			log.Fatalf("[-] Ошибка: для mp4 нужен ffmpeg в PATH")
		}
		cfg.VideoEncoder = system.GetBestH264Encoder()
		if cfg.VideoEncoder != "libx264" {
			fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", cfg.VideoEncoder)
		}
		if cfg.Quality == 0 {
			switch cfg.VideoEncoder {
			case "h264_videotoolbox":
				cfg.Quality = 75 // Хорошее качество для VideoToolbox
			case "h264_nvenc":
				cfg.Quality = 28 // Эквивалент CRF для NVENC
			default:
				cfg.Quality = 23 // Стандартный CRF для x264
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}

	doc, err := program.ReadDocument(cfg.DocumentPath)
	if err != nil {
		log.Fatalf("[-] Ошибка чтения документа: %v", err)
	}

	var symbols source.Source = source.MapSource{}
	if cfg.SymbolsDir != "" {
		symbols, err = source.NewImageSource(cfg.SymbolsDir)
		if err != nil {
			log.Fatalf("[-] Ошибка инициализации иконок: %v", err)
		}
	}
	defer symbols.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Mode {
	case config.ModeSimulate:
		err = runSimulate(cfg, doc, os.Stdout)
	case config.ModePlay:
		err = runPlay(ctx, cfg, doc, os.Stdout)
	case config.ModeExport:
		err = runExport(ctx, cfg, doc, symbols)
	}
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
}
