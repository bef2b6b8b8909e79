package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting pipeline":               "パイプラインを開始します",
		"Pipeline completed successfully": "パイプラインが正常に完了しました",
		"Probing images in %s":            "%s の画像を調べています",
		"Found %d images":                 "%d 枚の画像が見つかりました",
		"No images found in %s":           "%s に画像が見つかりません",
		"Calculating layout":              "レイアウトを計算中",
		"Layout calculated: %d placements, %.0fpx tall": "レイアウト計算完了: %d 項目, 高さ %.0fpx",
		"Rendering preview":               "プレビューを描画中",
		"Layout written to %s":            "レイアウトを %s に書き出しました",
		"Preview written to %s":           "プレビューを %s に書き出しました",

		// Probe stage
		"Probing %d images with %d workers":    "%d 枚の画像を %d ワーカーで調査中",
		"Probed %d images (%d unreadable)":     "%d 枚の画像を調査しました (読み込めない画像 %d 枚)",
		"Could not read %s, treated as square": "%s を読み込めないため正方形として扱います",

		// Layout stage
		"Laid out %d items (%s, %.0fpx wide, %.0fpx tall)": "%d 項目をレイアウトしました (%s, 幅 %.0fpx, 高さ %.0fpx)",
		"Dropped %d items with unusable aspect ratios":     "縦横比が不正な %d 項目を除外しました",

		// Render stage
		"Rendering %d placements on a %dx%d canvas":         "%d 項目を %dx%d キャンバスに描画中",
		"Preview rendered (%d placeholders)":                "プレビューを描画しました (プレースホルダー %d 件)",
		"Could not read %s, drawing a placeholder: %s":      "%s を読み込めないためプレースホルダーを描画します: %s",
		"Could not read %s, using a square placeholder: %s": "%s を読み込めないため正方形のプレースホルダーを使用します: %s",

		// Driver and triggers
		"Layout requested by %s":                  "%s によりレイアウトを要求しました",
		"Skipping layout: container has no width": "レイアウトをスキップ: コンテナの幅がありません",
		"Skipping layout: gallery has no items":   "レイアウトをスキップ: ギャラリーに項目がありません",
		"Applied %d sizes":                        "%d 件のサイズを適用しました",
		"Subscribed to %d triggers":               "%d 個のトリガーを購読しました",
		"Waiting for %d images":                   "%d 枚の画像の読み込みを待機中",
		"%s changed (%s)":                         "%s が変更されました (%s)",
		"Wrote %d placements to %s":               "%d 項目を %s に書き出しました",
		"Wrote %d entries to %s":                  "%d 件を %s に書き出しました",

		// Browser host
		"Using Chrome at %s":                 "%s のChromeを使用します",
		"Launching browser in headless mode": "ヘッドレスモードでブラウザを起動中",
		"Launching browser in visible mode":  "表示モードでブラウザを起動中",
		"Navigating to %s":                   "%s へ移動中",
		"Observing %s on %s":                 "%s を %s で監視中",
		"Page reported %s":                   "ページから %s の通知を受けました",
		"Browser closed":                     "ブラウザを閉じました",

		// Warnings
		"Layout pass failed: %s":            "レイアウト処理に失敗しました: %s",
		"Waiting for images failed: %s":     "画像の読み込み待機に失敗しました: %s",
		"Watching %s failed: %s":            "%s の監視に失敗しました: %s",
		"Failed to save debug layout: %s":   "デバッグ用レイアウトの保存に失敗しました: %s",
		"Failed to save debug preview: %s":  "デバッグ用プレビューの保存に失敗しました: %s",

		// Errors
		"Failed to probe images: %s":     "画像の調査に失敗しました: %s",
		"Failed to calculate layout: %s": "レイアウトの計算に失敗しました: %s",
		"Failed to render preview: %s":   "プレビューの描画に失敗しました: %s",
		"Failed to write preview: %s":    "プレビューの書き込みに失敗しました: %s",
		"Failed to write output: %s":     "出力の書き込みに失敗しました: %s",
		"Failed to launch browser: %s":   "ブラウザの起動に失敗しました: %s",
	})
}
