// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package watcher triggers ingest passes when the CSV folder changes.

	w, err := watcher.New(cfg.CSVDir, cfg.WatchDebounce, svc.Ingest, nil)
	if err != nil {
		return err
	}
	go w.Run(ctx)

Create, write and rename events on *.csv files restart a debounce timer;
when the folder has been quiet for the window the ingest function runs
once. Other files are ignored.
*/
package watcher
