package output

// htmlTemplate is the main HTML template for the report
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Name}} - Simulation Report</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        :root {
            --bg-primary: #ffffff;
            --bg-secondary: #f8fafc;
            --text-primary: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
            --accent-primary: #3b82f6;
            --accent-success: #22c55e;
            --accent-warning: #f59e0b;
            --accent-error: #ef4444;
            --shadow: 0 1px 3px rgba(0, 0, 0, 0.1);
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: var(--bg-secondary);
            color: var(--text-primary);
            line-height: 1.6;
        }

        .container { max-width: 1200px; margin: 0 auto; padding: 2rem; }
        header { margin-bottom: 2rem; }
        header .meta { color: var(--text-secondary); display: flex; gap: 1.5rem; }
        .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 1rem; margin-bottom: 2rem; }
        .card { background: var(--bg-primary); border: 1px solid var(--border-color); border-radius: 8px; padding: 1rem; box-shadow: var(--shadow); }
        .card .label { color: var(--text-secondary); font-size: 0.85rem; }
        .card .value { font-size: 1.5rem; font-weight: 600; }
        section { background: var(--bg-primary); border: 1px solid var(--border-color); border-radius: 8px; padding: 1.5rem; margin-bottom: 2rem; }
        h2 { font-size: 1.1rem; margin-bottom: 1rem; }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 0.5rem; border-bottom: 1px solid var(--border-color); }
        .good { color: var(--accent-success); }
        .warn { color: var(--accent-warning); }
        .bad { color: var(--accent-error); }
        .muted { color: var(--text-secondary); }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>{{.Name}}</h1>
            {{if .Description}}<p class="description">{{.Description}}</p>{{end}}
            <div class="meta">
                <span>{{formatTime .Start}} to {{formatTime .End}}</span>
                <span>{{formatDuration (.End.Sub .Start)}}</span>
                <span>run {{.RunID}}</span>
            </div>
        </header>

        <div class="cards">
            <div class="card"><div class="label">Samples</div><div class="value">{{formatNumber .TotalSamples}}</div></div>
            <div class="card"><div class="label">Consistency</div><div class="value">{{.Consistency}}</div></div>
            <div class="card"><div class="label">Seed</div><div class="value">{{.Seed}}</div></div>
            <div class="card"><div class="label">Hourly max / min</div><div class="value">{{formatNumber .Hourly.Max}} / {{formatNumber .Hourly.Min}}</div></div>
        </div>

        <section>
            <h2>Latency Distribution</h2>
            <table>
                <thead><tr><th>Limit</th><th>Cumulative</th><th>Percent</th></tr></thead>
                <tbody>
                {{range .Overall}}
                    <tr>
                        <td>&lt;= {{.Limit}} ms</td>
                        <td>{{formatNumber .Sum}}</td>
                        <td class="{{coverageClass .Percentage}}">{{printf "%.1f%%" .Percentage}}</td>
                    </tr>
                {{end}}
                </tbody>
            </table>
        </section>

        <section>
            <h2>Percentile Estimates</h2>
            <table>
                <thead><tr><th>Quantile</th><th>Bucketed</th><th>Reference</th></tr></thead>
                <tbody>
                {{range .Estimates}}
                    <tr>
                        <td>P{{formatQuantile .Quantile}}</td>
                        <td>{{if .Unbounded}}<span class="bad">unbounded</span>{{else}}&lt;= {{.Bucketed}} ms{{end}}</td>
                        <td class="muted">{{formatMillis .ReferenceMillis}}</td>
                    </tr>
                {{end}}
                </tbody>
            </table>
        </section>

        {{if .Intervals}}
        <section>
            <h2>Intervals</h2>
            <canvas id="intervalChart" height="80"></canvas>
        </section>
        {{end}}

        <section>
            <h2>Hourly Window ({{.Hourly.Hours}}h, {{.Hourly.Granularity}}m buckets)</h2>
            <canvas id="hourlyChart" height="80"></canvas>
        </section>

        {{if .Phases}}
        <section>
            <h2>Phases</h2>
            <table>
                <thead><tr><th>Phase</th><th>Start</th><th>Duration</th><th>Samples</th></tr></thead>
                <tbody>
                {{range .Phases}}
                    <tr>
                        <td>{{.Name}}</td>
                        <td>{{formatTime .Start}}</td>
                        <td>{{formatDuration .Duration}}</td>
                        <td>{{.Samples}}</td>
                    </tr>
                {{end}}
                </tbody>
            </table>
        </section>
        {{end}}
    </div>

    <script>
        const chartData = {{.ChartJSON}};

        function barChart(id, labels, values, color) {
            const canvas = document.getElementById(id);
            if (!canvas || typeof Chart === 'undefined') {
                return;
            }
            new Chart(canvas, {
                type: 'bar',
                data: { labels: labels, datasets: [{ data: values, backgroundColor: color }] },
                options: { plugins: { legend: { display: false } } }
            });
        }

        barChart('intervalChart', chartData.intervalLabels, chartData.intervalTotals, '#3b82f6');
        barChart('hourlyChart', (chartData.hourlyData || []).map((_, i) => i), chartData.hourlyData, '#22c55e');
    </script>
</body>
</html>
`
