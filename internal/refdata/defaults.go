package refdata

// Well-known mainnet addresses. These are the built-in tables; deployments
// extend them via the YAML overlay (see LoadDataset).

// Canonical mints used across the pipeline.
const (
	MintSOL  = "So11111111111111111111111111111111111111112"
	MintUSDC = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	MintUSDT = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
)

// DefaultDataset returns the built-in reference tables.
func DefaultDataset() Dataset {
	return Dataset{
		Tokens: map[string]TokenMeta{
			MintSOL:  {Symbol: "SOL", Name: "Wrapped SOL"},
			MintUSDC: {Symbol: "USDC", Name: "USD Coin"},
			MintUSDT: {Symbol: "USDT", Name: "Tether USD"},
			"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": {Symbol: "BONK", Name: "Bonk", Memecoin: true},
			"EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm": {Symbol: "WIF", Name: "dogwifhat", Memecoin: true},
			"HhJpBhRRn4g56VsyLuT8DL5Bv31HkXqsrahTTUCZeZg4": {Symbol: "MYRO", Name: "Myro", Memecoin: true},
			"7GCihgDB8fe6KNjn2MYtkzZcRjQy3t9GHdC8uHYmW2hr": {Symbol: "POPCAT", Name: "Popcat", Memecoin: true},
			"ukHH6c7mMyiWCf1b9pnWe25TSpkDDt3H5pQZgZ74J82":  {Symbol: "BOME", Name: "Book of Meme", Memecoin: true},
			"MEW1gQWJ3nEXg2qgERiKu7FAFj79PHvQVREQUzScPP5":  {Symbol: "MEW", Name: "cat in a dogs world", Memecoin: true},
			"A8C3xuqscfmyLrte3VmTqrAq8kgMASius9AFNANwpump": {Symbol: "FWOG", Name: "Fwog", Memecoin: true},
		},
		CEX: map[string]string{
			"5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9": "Binance",
			"2ojv9BAiHUrvsm9gxDe7fJSzbNZSJcxZvf8dqmWGHG8S": "Binance",
			"H8sMJSCQxfKiFTCfDR3DUMLPwcRbM61LGFJ8N4dK3WjS": "Coinbase",
			"GJRs4FwHtemZ5ZE9x3FNvJ8TMwitKTh21yxdRPqn7npE": "Coinbase",
			"FWznbcNXWQuHTawe9RxvQ2LdCENssh12dsznf4RiouN5": "Kraken",
			"AC5RDfQFmDS1deWZos921JfqscXdByf8BKHs5ACWjtW2": "Bybit",
			"5VCwKtCXgCJ6kit5FybXjvriW3xELsFDhYrPSqtJNmcD": "OKX",
			"ASTyfSima4LLAdDgoFGkgqoKowG1LZFDr9fAQrg7iaJZ": "MEXC",
			"u6PJ8DtQuPFnfmwHbGFULQ4u4EgjDiyYKjVEsynXq2w":  "Gate.io",
			"9un5wqE3q4oCjyrDkwsdD48KteCJitQX5978Vh7KKxHo": "KuCoin",
		},
		Protocols: map[string]string{
			"675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8": "Raydium",
			"CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK": "Raydium CLMM",
			"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4":  "Jupiter",
			"whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc":  "Orca",
			"9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP": "Orca v2",
			"6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P":  "Pump.fun",
			"PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLR89jjFHGqdXY":  "Phoenix",
			"LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo":  "Meteora",
			"So1endDq2YkqhipRh3WViPa8hdiSpxWy6z3Z6tMCpAo":  "Solend",
			"4UpD2fh7xH3VP9QQaXtsS1YY3bxzWhtfpks7FatyKvdY": "Jito",
			"KLend2g3cP87fffoy8q1mQqGKjrxjC8boSyAYavgmjD":  "Kamino",
			"MFv2hWf31Z9kbCa1snEPYctwafyhdvnV7FZnsebVacA":  "Marginfi",
		},
		Mixers: map[string]string{
			"E1usivoQzreheDLnFBYQJ6fdjLMw2wyaDHkHBaZ4hfnh": "Elusiv",
			"9fXCzJpVBkeKzuTbLjBPvqfF4pGVTCvBQYvoAhXZFXNx": "Elusiv Relayer",
			"1ightDdXgNjeDGyDJdPcZn2S7hgO3mZaAionKnXvE5o":  "Light Protocol",
			"cTok5BJ8vPuzJWXqMz1pXuHfmGkuTw8yMQvynf6yn4e":  "Cyclos Shield",
		},
		Airdrops: map[string]string{
			"meRjbQXFNf5En86FXT2YPz1dQzLj4Yb3xK8u1MVgqpb":  "Jupiter Airdrop",
			"DiS3nNjFVMieMgmiQFm6wgJL7nLIuSa2DtcWzWzVyqRjl": "Pyth Airdrop",
			"wnsNFTMkJpSZWjzcEeyeSeDQNgdsnQq7MhcU9Tpo9mU":  "Wen Airdrop",
		},
		Staking: map[string]string{
			"Stake11111111111111111111111111111111111111":  "Native Staking",
			"MarBmsSgKXdrN1egZf5sqe1TMai9K1rChYNDJgjq7aD":  "Marinade",
			"CrX7kMhLC3cSsXJdT7JDgqrRVWGnUpX3gfEfxxU2NVLi": "Lido",
			"SPoo1Ku8WFXoNDMHPsrGSTSG1Y47rzgn41SLUNakuHy":  "SPL Stake Pool",
			"B1aZeRtSduop7xnKXDM9FVW9veiBDqVKBT32byJiYaZB": "BlazeStake",
		},
		Marketplaces: map[string]string{
			"M2mx93ekt1fmXSVkTrUL9xVFHkmME8HTUi5Cyc5aF7K": "Magic Eden",
			"TSWAPaqyCSx2KABk68Shruf4rp7CxcNi8hAsbdwmHbN": "Tensor",
			"TCMPhJdwDryooaGtiocG1u3xcYbRpiJzb283XfCZsDp": "Tensor cNFT",
			"hausS13jsjafwWwGqZTUQRmWyvyxn9EQpqMwV1PBBmk": "Hyperspace",
		},
	}
}
