package main

import (
	"log"

	"MenuCleaning/src/config"
	"MenuCleaning/src/processor"
	"MenuCleaning/src/storage"
)

func main() {
	jsonFolder := "./config"
	jsonFile := "config.json"
	dataJsonFile := "dataconfig.json"

	if err := run(jsonFolder, jsonFile, dataJsonFile); err != nil {
		log.Fatal(err)
	}
}

func run(jsonFolder, jsonFile, dataJsonFile string) error {
	cfg, dcfg, err := config.LoadConfig(jsonFolder, jsonFile, dataJsonFile)
	if err != nil {
		return err
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		return err
	}
	defer logger.Close()
	logger.SetVerbose(cfg.Verbose)

	if err := logger.CheckRotate(cfg.LogMaxSize); err != nil {
		logger.Warning("日志轮转失败: " + err.Error())
	}

	if err := processor.NewDataProcessor(cfg, dcfg, logger).Run(); err != nil {
		logger.Fatal("数据处理中止")
		return err
	}
	return nil
}
