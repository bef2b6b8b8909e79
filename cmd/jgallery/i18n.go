// Package main provides localization for the jgallery CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Output":           "出力先",
		"Preset":           "プリセット",
		"Browser":          "ブラウザ設定",
		"Layout and Style": "レイアウトとスタイル",
		"Debug":            "デバッグ",
		"Logging":          "ログ",

		// Root command
		"Lay out screenshot galleries in justified rows or a masonry grid": "スクリーンショットギャラリーを行揃えまたはメイソンリーでレイアウト",
		"jgallery computes justified and masonry layouts for screenshot galleries. It writes layout documents for a directory of images, keeps them current while the directory changes, and applies layouts to a live page.": "jgalleryはスクリーンショットギャラリーの行揃えレイアウトとメイソンリーレイアウトを計算します。画像ディレクトリのレイアウト文書を書き出し、ディレクトリの変更に追従し、実際のページにレイアウトを適用します。",

		// Layout command
		"Compute the layout of a screenshot directory": "スクリーンショットディレクトリのレイアウトを計算",
		"Read the size of every image in the directory, lay them out and write the layout document.": "ディレクトリ内の全画像のサイズを読み取り、レイアウトしてレイアウト文書を書き出します。",

		// Watch command
		"Keep the layout of a screenshot directory up to date": "スクリーンショットディレクトリのレイアウトを最新に保つ",
		"Write the layout document, then rewrite it whenever images are added, removed or replaced.": "レイアウト文書を書き出し、画像の追加・削除・置換のたびに書き直します。",

		// Apply command
		"Lay out the gallery of a live page": "実際のページのギャラリーをレイアウト",
		"Open the page in Chrome and size its gallery items, relaying out whenever items change, images load or the container resizes.": "Chromeでページを開いてギャラリー項目のサイズを設定し、項目の変更・画像の読み込み・コンテナのリサイズのたびに再レイアウトします。",

		// Manifest command
		"Write the screenshot data file of a gallery page": "ギャラリーページのスクリーンショットデータファイルを書き出す",
		"List the screenshots of the directory with captions derived from their file names and write them as window.screenshotData.": "ディレクトリのスクリーンショットをファイル名から作ったキャプションと共に列挙し、window.screenshotData として書き出します。",

		// Output flags
		"Layout JSON file path (default: <dir>/layout.json)":                  "レイアウトJSONのファイルパス（デフォルト: <dir>/layout.json）",
		"Preview PNG file path":                                               "プレビューPNGのファイルパス",
		"Output run summary to file (Markdown format)":                        "実行サマリーをファイルに出力（Markdown形式）",
		"Write the applied layout as JSON (with --once)":                      "適用したレイアウトをJSONで書き出す（--once と併用）",
		"Data file path (default: screenshot_data.js next to the directory)": "データファイルのパス（デフォルト: ディレクトリと同じ階層の screenshot_data.js）",
		"Caption overrides JSON (default: screenshot_captions.json next to the directory)": "キャプション上書きJSON（デフォルト: ディレクトリと同じ階層の screenshot_captions.json）",
		"File pattern to include (repeatable, default: *.png)":                "対象のファイルパターン（複数指定可、デフォルト: *.png）",

		// Preset flags
		"YAML configuration file":                              "YAML設定ファイル",
		"Device preset (desktop, mobile)":                      "デバイスプリセット（desktop, mobile）",
		"Row density preset (compact, comfortable, spacious)": "行密度プリセット（compact, comfortable, spacious）",

		// Layout flags
		"Layout mode (justified, masonry)":                            "レイアウトモード（justified, masonry）",
		"Container width in pixels":                                   "コンテナの幅（ピクセル）",
		"Gap between items in pixels":                                 "項目間の隙間（ピクセル）",
		"Preferred row height in pixels":                              "目標の行の高さ（ピクセル）",
		"Tallest allowed row in pixels (default: 1.2 x target)":       "行の高さの上限（ピクセル、デフォルト: 目標の1.2倍）",
		"Masonry column count (0 = derive from width)":                "メイソンリーのカラム数（0 = 幅から算出）",
		"Preview background color (hex, e.g., #f5f5f5)":               "プレビューの背景色（16進数、例: #f5f5f5）",
		"Milliseconds between a change and the relayout it triggers": "変更から再レイアウトまでのミリ秒",

		// Browser flags
		"CSS selector of the gallery container":                      "ギャラリーコンテナのCSSセレクタ",
		"CSS selector of the gallery items":                          "ギャラリー項目のCSSセレクタ",
		"Path to Chrome executable":                                  "Chrome実行ファイルのパス",
		"Run browser in non-headless mode":                           "ブラウザを非ヘッドレスモードで実行",
		"Browser viewport width":                                     "ブラウザのビューポート幅",
		"Page load timeout in seconds":                               "ページ読み込みのタイムアウト秒数",
		"Apply one layout and exit instead of following the page": "ページに追従せず、一度だけレイアウトを適用して終了",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力のディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Runtime messages
		"Interrupted, shutting down...":               "中断されました。シャットダウン中...",
		"Watching %s, press Ctrl+C to stop":           "%s を監視中。Ctrl+C で終了します",
		"Following %s, press Ctrl+C to stop":          "%s に追従中。Ctrl+C で終了します",
		"Layout updated: %d placements, %.0fpx tall": "レイアウト更新: %d 項目, 高さ %.0fpx",
		"Nothing to lay out: %s":                      "レイアウト対象がありません: %s",
		"Wrote %d screenshots to %s":                  "%d 件のスクリーンショットを %s に書き出しました",

		// Error messages
		"Directory argument is required": "ディレクトリ引数が必要です",
		"URL argument is required":       "URL引数が必要です",

		// Summary output
		"Summary saved to %s":         "サマリーを %s に保存しました",
		"Failed to write summary: %s": "サマリーの書き込みに失敗しました: %s",

		// Summary content
		"Layout Summary": "レイアウトサマリー",
		"Source":         "入力",
		"Settings":       "設定",
		"Layout":         "レイアウト",
		"Item":           "項目",
		"Value":          "値",
		"Generated by":   "生成:",

		// Source section
		"Directory":  "ディレクトリ",
		"Images":     "画像数",
		"Unreadable": "読み込めない画像",

		// Settings section
		"Mode":              "モード",
		"Container Width":   "コンテナ幅",
		"Gap":               "隙間",
		"Target Row Height": "目標の行の高さ",
		"Max Row Height":    "行の高さの上限",

		// Layout section
		"Placements":    "配置数",
		"Total Height":  "全体の高さ",
		"Columns":       "カラム数",
		"Rows":          "行",
		"Items":         "項目数",
		"Height":        "高さ",
		"Scale":         "倍率",
		"Notes":         "備考",
		"last":          "最終行",
		"saturated":     "上限到達",
		"Dropped Items": "除外された項目",

		// Output section
		"Layout File":  "レイアウトファイル",
		"Preview":      "プレビュー",
		"Placeholders": "プレースホルダー",
		"Duration":     "所要時間",
	})
}
